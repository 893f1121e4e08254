package authRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"verve/config"
	authController "verve/controllers/auth"
	"verve/middleware"
	authValidator "verve/validators/auth"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	auth := authController.NewHandler(db, cfg)
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), auth.Register)
	authGroup.Post("/login", authValidator.Login(), auth.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, auth.Me)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authValidator.LoginHistoryList(), auth.LoginHistoryList)
	authGroup.Put("/change/login/password", middleware.JWTMiddleware, authValidator.ChangeLoginPassword(), auth.ChangeLoginPassword)
}
