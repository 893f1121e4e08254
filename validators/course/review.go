package courseValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"verve/middleware"
	courseService "verve/services/course"
	"verve/validators"
)

// CreateReview validates POST /courses/:courseId/reviews.
func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseService.ReviewInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Comment = strings.TrimSpace(reqData.Comment)
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", *reqData)
		return c.Next()
	}
}

// UpdateReview validates PUT /courses/reviews/:reviewId. Omitted fields stay as they are.
func UpdateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseService.ReviewUpdate)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		for _, s := range []*string{reqData.Title, reqData.Comment} {
			if s != nil {
				*s = strings.TrimSpace(*s)
			}
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReviewUpdate", *reqData)
		return c.Next()
	}
}

// ReviewList validates the paging query of GET /courses/:courseId/reviews.
func ReviewList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &courseService.ReviewQuery{Page: 1, Limit: 10, SortBy: "recent"}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReviewQuery", *reqData)
		return c.Next()
	}
}
