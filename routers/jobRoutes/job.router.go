package jobRoutes

import (
	"github.com/gofiber/fiber/v2"

	jobsController "verve/controllers/jobs"
	"verve/middleware"
	courseService "verve/services/course"
)

func SetupJobRoutes(app *fiber.App, svc *courseService.Service, cronKey string) {
	jobs := jobsController.NewHandler(svc)

	jobGroup := app.Group("/jobs", middleware.CronKey(cronKey))
	jobGroup.Post("/subscriptions/expire", jobs.ExpireSubscriptions)
}
