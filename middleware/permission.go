package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"verve/apierr"
	courseModels "verve/models/course"
	courseService "verve/services/course"
)

const localCourse = "course"

// AdminOnly must run after JWTMiddleware.
func AdminOnly(c *fiber.Ctx) error {
	viewer := CurrentViewer(c)
	if !viewer.Authenticated() {
		return ErrorResponse(c, apierr.Unauthorized("Unauthorized!"))
	}
	if !viewer.IsAdmin() {
		return ErrorResponse(c, apierr.Forbidden("Admin access required."))
	}
	return c.Next()
}

// CourseAccess resolves the course named by the route parameter, checks the viewer may
// open it, and stores it for the handler. Access is recomputed on every request.
func CourseAccess(svc *courseService.Service, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		course, err := svc.Resolver.Resolve(c.UserContext(), c.Params(param))
		if err != nil {
			return ErrorResponse(c, err)
		}
		if _, err := svc.Access.Check(c.UserContext(), CurrentViewer(c), course); err != nil {
			return ErrorResponse(c, err)
		}
		c.Locals(localCourse, course)
		return c.Next()
	}
}

// ResolvedCourse returns the course stored by CourseAccess.
func ResolvedCourse(c *fiber.Ctx) (*courseModels.Course, bool) {
	course, ok := c.Locals(localCourse).(*courseModels.Course)
	return course, ok
}

// CronKey guards job endpoints invoked by the external scheduler. An empty key rejects
// every request.
func CronKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Cron-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return ErrorResponse(c, apierr.Unauthorized("Invalid cron key."))
		}
		return c.Next()
	}
}
