package courseController

import (
	"github.com/gofiber/fiber/v2"

	"verve/middleware"
	courseService "verve/services/course"
)

// MarkLessonComplete records the lesson and reports completion and any certificate.
func (h *Handler) MarkLessonComplete(c *fiber.Ctx) error {
	course, ok := middleware.ResolvedCourse(c)
	if !ok {
		return middleware.ErrorResponse(c, courseService.ErrCourseNotFound)
	}
	score, _ := c.Locals("validatedQuizScore").(int)

	result, err := h.svc.CompleteLesson(c.UserContext(), middleware.CurrentViewer(c).ID, course, c.Params("lessonId"), score)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Lesson marked as complete!"
	switch {
	case result.FinalExamPending:
		message = "All lessons completed! Pass the final exam to earn your certificate."
	case result.IsCourseComplete:
		message = "Congratulations! Course completed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// SubmitLessonQuiz grades a lesson quiz without recording completion.
func (h *Handler) SubmitLessonQuiz(c *fiber.Ctx) error {
	course, ok := middleware.ResolvedCourse(c)
	if !ok {
		return middleware.ErrorResponse(c, courseService.ErrCourseNotFound)
	}
	answers, _ := c.Locals("validatedAnswers").(map[int]string)

	result, err := h.svc.SubmitLessonQuiz(course, c.Params("lessonId"), answers)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully.", result)
}

// SubmitFinalExam grades the exam, records the attempt and may issue the certificate.
func (h *Handler) SubmitFinalExam(c *fiber.Ctx) error {
	course, ok := middleware.ResolvedCourse(c)
	if !ok {
		return middleware.ErrorResponse(c, courseService.ErrCourseNotFound)
	}
	answers, _ := c.Locals("validatedAnswers").(map[int]string)

	result, err := h.svc.SubmitExam(c.UserContext(), middleware.CurrentViewer(c).ID, course, answers)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Exam submitted. You did not reach the passing score, please try again."
	if result.Passed {
		message = "Congratulations! You passed the final exam!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// GetExamAttempts returns the caller's attempt history with the best score.
func (h *Handler) GetExamAttempts(c *fiber.Ctx) error {
	course, err := h.svc.Resolver.Resolve(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	history, err := h.svc.ExamAttempts(c.UserContext(), middleware.CurrentViewer(c).ID, course)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam attempts fetched successfully.", history)
}
