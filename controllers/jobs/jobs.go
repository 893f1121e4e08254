package jobsController

import (
	"github.com/gofiber/fiber/v2"

	"verve/logger"
	"verve/middleware"
	courseService "verve/services/course"
)

type Handler struct {
	subscriptions *courseService.SubscriptionJobs
}

func NewHandler(svc *courseService.Service) *Handler {
	return &Handler{subscriptions: svc.Subscriptions}
}

// ExpireSubscriptions is fired by the external scheduler.
func (h *Handler) ExpireSubscriptions(c *fiber.Ctx) error {
	expired, err := h.subscriptions.ExpireDue(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.L().Info("subscription expiry job ran", "expired", expired, "requestId", middleware.RequestID(c))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscriptions expired.", fiber.Map{
		"expired": expired,
	})
}
