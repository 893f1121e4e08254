package courseValidator

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	courseService "verve/services/course"
)

func send(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCompleteLesson(t *testing.T) {
	app := fiber.New()
	app.Post("/lesson/:lessonId", CompleteLesson(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"score": c.Locals("validatedQuizScore")})
	})

	status, body := send(t, app, "POST", "/lesson/abc", `{"quizScore": 85}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(85), body["score"])

	status, body = send(t, app, "POST", "/lesson/abc", ``)
	assert.Equal(t, fiber.StatusOK, status, "body is optional")
	assert.Equal(t, float64(0), body["score"])

	status, body = send(t, app, "POST", "/lesson/abc", `{"quizScore": 101}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Validation failed!", body["message"])
	assert.Contains(t, body["errors"], "quizScore")
}

func TestSubmitAnswers(t *testing.T) {
	app := fiber.New()
	app.Post("/submit", SubmitAnswers(), func(c *fiber.Ctx) error {
		answers := c.Locals("validatedAnswers").(map[int]string)
		return c.JSON(fiber.Map{"count": len(answers), "first": answers[0]})
	})

	status, body := send(t, app, "POST", "/submit", `{"answers": {"0": "A", "3": "C"}}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "A", body["first"])

	status, _ = send(t, app, "POST", "/submit", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = send(t, app, "POST", "/submit", `{"answers": ["A", "B"]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	status, _ = send(t, app, "POST", "/submit", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCourseList(t *testing.T) {
	app := fiber.New()
	app.Get("/courses", CourseList(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": c.Locals("validatedStatus")})
	})

	status, body := send(t, app, "GET", "/courses?status=published", ``)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "published", body["status"])

	status, _ = send(t, app, "GET", "/courses?status=archived", ``)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateCourse(t *testing.T) {
	app := fiber.New()
	app.Post("/courses", CreateCourse(), func(c *fiber.Ctx) error {
		in := c.Locals("validatedCourse").(*courseService.CourseInput)
		return c.JSON(fiber.Map{"title": in.Title, "lessons": len(in.Modules[0].Lessons)})
	})

	status, body := send(t, app, "POST", "/courses", `{
		"title": "Go",
		"tier": "premium",
		"modules": [{"title": "M1", "lessons": [{"title": "L1", "quiz": [{"question": "q", "options": ["a"], "correctAnswer": "a"}]}]}]
	}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Go", body["title"])
	assert.Equal(t, float64(1), body["lessons"])

	status, body = send(t, app, "POST", "/courses", `{"tier": "gold", "modules": [{"lessons": [{"title": ""}]}]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "tier")
	assert.Contains(t, errs, "modules[0].title")
	assert.Contains(t, errs, "modules[0].lessons[0].title")
}

func TestUpdateCourse(t *testing.T) {
	app := fiber.New()
	app.Put("/courses/:id", UpdateCourse(), func(c *fiber.Ctx) error {
		in := c.Locals("validatedCourseUpdate").(*courseService.CourseUpdate)
		return c.JSON(fiber.Map{"hasTitle": in.Title != nil, "hasModules": in.Modules != nil})
	})

	status, body := send(t, app, "PUT", "/courses/x", `{"status": "draft"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["hasTitle"])
	assert.Equal(t, false, body["hasModules"])

	status, _ = send(t, app, "PUT", "/courses/x", `{"accessType": "everyone"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateReview(t *testing.T) {
	app := fiber.New()
	app.Post("/reviews", CreateReview(), func(c *fiber.Ctx) error {
		in := c.Locals("validatedReview").(courseService.ReviewInput)
		return c.JSON(fiber.Map{"rating": in.Rating, "title": in.Title})
	})

	status, body := send(t, app, "POST", "/reviews", `{"rating": 4, "title": "  Good  ", "comment": "Worth it"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(4), body["rating"])
	assert.Equal(t, "Good", body["title"])

	status, body = send(t, app, "POST", "/reviews", `{"rating": 6, "title": "   ", "comment": "x"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	errs := body["errors"].(map[string]interface{})
	assert.Equal(t, "rating must be at most 5!", errs["rating"])
	assert.Equal(t, "title is required!", errs["title"])

	long := strings.Repeat("a", 101)
	status, body = send(t, app, "POST", "/reviews", `{"rating": 3, "title": "`+long+`", "comment": "x"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "title must be at most 100 characters long!", body["errors"].(map[string]interface{})["title"])
}

func TestUpdateReview(t *testing.T) {
	app := fiber.New()
	app.Put("/reviews/:reviewId", UpdateReview(), func(c *fiber.Ctx) error {
		in := c.Locals("validatedReviewUpdate").(courseService.ReviewUpdate)
		return c.JSON(fiber.Map{"hasRating": in.Rating != nil, "hasTitle": in.Title != nil})
	})

	status, body := send(t, app, "PUT", "/reviews/x", `{"rating": 2}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["hasRating"])
	assert.Equal(t, false, body["hasTitle"])

	status, _ = send(t, app, "PUT", "/reviews/x", `{"rating": 0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = send(t, app, "PUT", "/reviews/x", `{"title": ""}`)
	assert.Equal(t, fiber.StatusBadRequest, status, "an explicit empty title is rejected")
}

func TestReviewList(t *testing.T) {
	app := fiber.New()
	app.Get("/reviews", ReviewList(), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("validatedReviewQuery").(courseService.ReviewQuery))
	})

	status, body := send(t, app, "GET", "/reviews", ``)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(10), body["limit"])
	assert.Equal(t, "recent", body["sortBy"])

	status, body = send(t, app, "GET", "/reviews?page=2&limit=5&sortBy=rating", ``)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, "rating", body["sortBy"])

	status, _ = send(t, app, "GET", "/reviews?limit=500", ``)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = send(t, app, "GET", "/reviews?sortBy=helpful", ``)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
