package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	courseController "verve/controllers/course"
	"verve/middleware"
	courseService "verve/services/course"
	courseValidator "verve/validators/course"
)

// SetupAdminCourseRoutes registers catalog writes. All of them require an admin token.
func SetupAdminCourseRoutes(app *fiber.App, svc *courseService.Service) {
	courses := courseController.NewHandler(svc)
	adminGroup := app.Group("/courses")
	admin := []fiber.Handler{middleware.JWTMiddleware, middleware.AdminOnly}

	adminGroup.Post("/", append(admin, courseValidator.CreateCourse(), courses.CreateCourse)...)
	adminGroup.Put("/:id", append(admin, courseValidator.UpdateCourse(), courses.UpdateCourse)...)
	adminGroup.Delete("/:id", append(admin, courses.DeleteCourse)...)

	// assets
	adminGroup.Post("/:id/image", append(admin, courseValidator.UploadFile("image"), courses.UploadCourseImage)...)
	adminGroup.Post("/:courseId/lessons/:lessonId/upload-content",
		append(admin, courseValidator.UploadFile("content"), courses.UploadLessonContent)...)
}
