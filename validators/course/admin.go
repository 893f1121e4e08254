package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"verve/middleware"
	courseService "verve/services/course"
	"verve/validators"
)

// max upload accepted for course images and lesson content
const maxUploadBytes = 100 << 20

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseService.CourseInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseService.CourseUpdate)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// UploadFile requires a multipart file under field and stores its header for the handler.
func UploadFile(field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile(field)
		if err != nil || file == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file selected. Please upload a file.", nil)
		}
		if file.Size <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Uploaded file is empty.", nil)
		}
		if file.Size > maxUploadBytes {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Uploaded file is too large.", nil)
		}

		c.Locals("validatedUpload", file)
		return c.Next()
	}
}
