package courseController

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"verve/apierr"
	"verve/logger"
	"verve/middleware"
	courseService "verve/services/course"
)

var errInvalidRequest = apierr.Validation("Invalid request data!")

func (h *Handler) CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseService.CourseInput)
	if !ok {
		return middleware.ErrorResponse(c, errInvalidRequest)
	}
	viewer := middleware.CurrentViewer(c)

	course, err := h.svc.Catalog.Create(c.UserContext(), viewer.ID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.L().Info("course created", "courseId", course.ID, "slug", course.Slug, "by", viewer.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func (h *Handler) UpdateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseUpdate").(*courseService.CourseUpdate)
	if !ok {
		return middleware.ErrorResponse(c, errInvalidRequest)
	}

	course, err := h.svc.Catalog.Update(c.UserContext(), c.Params("id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse removes the course with its content, enrollments and progress.
// Issued certificates are kept.
func (h *Handler) DeleteCourse(c *fiber.Ctx) error {
	identifier := c.Params("id")
	if err := h.svc.Catalog.Delete(c.UserContext(), identifier); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.L().Info("course deleted", "identifier", identifier, "by", middleware.CurrentViewer(c).ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

func (h *Handler) UploadCourseImage(c *fiber.Ctx) error {
	file, ok := c.Locals("validatedUpload").(*multipart.FileHeader)
	if !ok {
		return middleware.ErrorResponse(c, errInvalidRequest)
	}
	upload, closeFile, err := openUpload(file)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	defer closeFile()

	course, err := h.svc.Catalog.SetImage(c.UserContext(), c.Params("id"), upload)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course image uploaded successfully!", course)
}

func (h *Handler) UploadLessonContent(c *fiber.Ctx) error {
	file, ok := c.Locals("validatedUpload").(*multipart.FileHeader)
	if !ok {
		return middleware.ErrorResponse(c, errInvalidRequest)
	}
	upload, closeFile, err := openUpload(file)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	defer closeFile()

	url, err := h.svc.Catalog.SetLessonContent(c.UserContext(), c.Params("courseId"), c.Params("lessonId"), upload)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson content uploaded successfully!", fiber.Map{
		"url": url,
	})
}

func openUpload(file *multipart.FileHeader) (courseService.Upload, func(), error) {
	f, err := file.Open()
	if err != nil {
		return courseService.Upload{}, nil, apierr.Internal("Failed to read uploaded file.", err)
	}
	upload := courseService.Upload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Body:        f,
	}
	return upload, func() { _ = f.Close() }, nil
}
