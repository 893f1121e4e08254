package courseController

import (
	"github.com/gofiber/fiber/v2"

	"verve/middleware"
	courseService "verve/services/course"
)

// GetCourseReviews lists a course's reviews with its rating breakdown.
func (h *Handler) GetCourseReviews(c *fiber.Ctx) error {
	course, err := h.svc.Resolver.Resolve(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	query, _ := c.Locals("validatedReviewQuery").(courseService.ReviewQuery)

	page, err := h.svc.Reviews.List(c.UserContext(), course.ID, query)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully.", page)
}

func (h *Handler) SubmitReview(c *fiber.Ctx) error {
	course, ok := middleware.ResolvedCourse(c)
	if !ok {
		return middleware.ErrorResponse(c, courseService.ErrCourseNotFound)
	}
	in, _ := c.Locals("validatedReview").(courseService.ReviewInput)

	review, err := h.svc.Reviews.Create(c.UserContext(), middleware.CurrentViewer(c).ID, course, in)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
}

func (h *Handler) UpdateReview(c *fiber.Ctx) error {
	in, _ := c.Locals("validatedReviewUpdate").(courseService.ReviewUpdate)

	review, err := h.svc.Reviews.Update(c.UserContext(), middleware.CurrentViewer(c), c.Params("reviewId"), in)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}

// DeleteReview lets the author or an admin remove a review.
func (h *Handler) DeleteReview(c *fiber.Ctx) error {
	if err := h.svc.Reviews.Delete(c.UserContext(), middleware.CurrentViewer(c), c.Params("reviewId")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}
