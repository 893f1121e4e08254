package courseValidator

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"verve/middleware"
	courseService "verve/services/course"
	"verve/validators"
)

// CompleteLesson validates POST /courses/:courseId/lesson/:lessonId/complete.
func CompleteLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.TrimSpace(c.Params("lessonId")) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required.", nil)
		}

		reqData := new(struct {
			QuizScore *int `json:"quizScore" validate:"omitempty,gte=0,lte=100"`
		})
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		score := 0
		if reqData.QuizScore != nil {
			score = *reqData.QuizScore
		}
		c.Locals("validatedQuizScore", score)
		return c.Next()
	}
}

// SubmitAnswers validates a quiz or exam submission body {answers: {index: answer}}.
func SubmitAnswers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers json.RawMessage `json:"answers"`
		})
		if err := json.Unmarshal(c.Body(), reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(reqData.Answers) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"answers": "answers is required!"})
		}

		answers, err := courseService.ParseAnswers(reqData.Answers)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}

		c.Locals("validatedAnswers", answers)
		return c.Next()
	}
}

// CourseList validates the optional status filter of GET /courses.
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `query:"status" json:"status" validate:"omitempty,oneof=draft published"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStatus", reqData.Status)
		return c.Next()
	}
}
