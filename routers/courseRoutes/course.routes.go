package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	courseController "verve/controllers/course"
	"verve/middleware"
	courseService "verve/services/course"
	courseValidator "verve/validators/course"
)

// SetupCourseRoutes registers the learner-facing course routes. The /user routes come
// before /:id so they are not captured as course identifiers.
func SetupCourseRoutes(app *fiber.App, svc *courseService.Service) {
	courses := courseController.NewHandler(svc)
	courseGroup := app.Group("/courses")

	// caller's records
	courseGroup.Get("/user/all-certificates", middleware.JWTMiddleware, courses.GetUserCertificates)
	courseGroup.Get("/user/enrollments", middleware.JWTMiddleware, courses.GetUserEnrollments)

	// catalog
	courseGroup.Get("/", middleware.OptionalJWT, courseValidator.CourseList(), courses.GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWT, courses.GetCourseDetails)

	// enrollment and progress
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, middleware.CourseAccess(svc, "id"), courses.EnrollInCourse)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, courses.GetUserProgress)

	// learning
	courseGroup.Post("/:courseId/lesson/:lessonId/complete",
		middleware.JWTMiddleware, courseValidator.CompleteLesson(), middleware.CourseAccess(svc, "courseId"), courses.MarkLessonComplete)
	courseGroup.Post("/:courseId/lessons/:lessonId/quiz/submit",
		middleware.JWTMiddleware, courseValidator.SubmitAnswers(), middleware.CourseAccess(svc, "courseId"), courses.SubmitLessonQuiz)
	courseGroup.Post("/:courseId/exam/submit",
		middleware.JWTMiddleware, courseValidator.SubmitAnswers(), middleware.CourseAccess(svc, "courseId"), courses.SubmitFinalExam)
	courseGroup.Get("/:courseId/exam/attempts", middleware.JWTMiddleware, courses.GetExamAttempts)

	// certificates
	courseGroup.Get("/:courseId/certificate", middleware.JWTMiddleware, courses.GetCertificate)
	courseGroup.Post("/:courseId/certificate/download", middleware.JWTMiddleware, courses.DownloadCertificate)

	// reviews
	courseGroup.Get("/:courseId/reviews", courseValidator.ReviewList(), courses.GetCourseReviews)
	courseGroup.Post("/:courseId/reviews",
		middleware.JWTMiddleware, courseValidator.CreateReview(), middleware.CourseAccess(svc, "courseId"), courses.SubmitReview)
	courseGroup.Put("/reviews/:reviewId", middleware.JWTMiddleware, courseValidator.UpdateReview(), courses.UpdateReview)
	courseGroup.Delete("/reviews/:reviewId", middleware.JWTMiddleware, courses.DeleteReview)
}
