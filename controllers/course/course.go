package courseController

import (
	"github.com/gofiber/fiber/v2"

	"verve/middleware"
	courseModels "verve/models/course"
	courseService "verve/services/course"
)

// Handler serves the course, progress and certificate routes.
type Handler struct {
	svc *courseService.Service
}

func NewHandler(svc *courseService.Service) *Handler {
	return &Handler{svc: svc}
}

// GetAllCourses lists courses without answer keys or inline lesson content.
func (h *Handler) GetAllCourses(c *fiber.Ctx) error {
	status, _ := c.Locals("validatedStatus").(string)

	courses, err := h.svc.Catalog.List(c.UserContext(), status)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	out := make([]courseModels.Course, len(courses))
	for i := range courses {
		out[i] = courseService.PublicCourse(courses[i], true)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", out)
}

// GetCourseDetails resolves by id, slug or title. Answer keys are only shown to admins.
func (h *Handler) GetCourseDetails(c *fiber.Ctx) error {
	course, err := h.svc.Resolver.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !middleware.CurrentViewer(c).IsAdmin() {
		public := courseService.PublicCourse(*course, false)
		course = &public
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", course)
}

// EnrollInCourse is idempotent; enrolling twice returns the existing enrollment.
func (h *Handler) EnrollInCourse(c *fiber.Ctx) error {
	course, ok := middleware.ResolvedCourse(c)
	if !ok {
		return middleware.ErrorResponse(c, courseService.ErrCourseNotFound)
	}
	viewer := middleware.CurrentViewer(c)

	enrollment, created, err := h.svc.Enrollments.Enroll(c.UserContext(), viewer.ID, course.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	progress, err := h.svc.Progress.Get(c.UserContext(), viewer.ID, course.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Successfully enrolled in course!"
	if !created {
		message = "Already enrolled in this course."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"enrollment": enrollment,
		"progress":   progress,
	})
}

// GetUserProgress returns the caller's progress, or an empty one when none exists.
func (h *Handler) GetUserProgress(c *fiber.Ctx) error {
	empty := fiber.Map{"completedLessons": []courseModels.CompletedLesson{}}

	course, err := h.svc.Resolver.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		if err == courseService.ErrCourseNotFound {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "No progress yet.", empty)
		}
		return middleware.ErrorResponse(c, err)
	}

	progress, err := h.svc.Progress.Find(c.UserContext(), middleware.CurrentViewer(c).ID, course.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if progress == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No progress yet.", empty)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", progress)
}

// GetUserEnrollments lists the caller's enrollments.
func (h *Handler) GetUserEnrollments(c *fiber.Ctx) error {
	enrollments, err := h.svc.Enrollments.ListForUser(c.UserContext(), middleware.CurrentViewer(c).ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}
