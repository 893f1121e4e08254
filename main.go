package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"verve/config"
	"verve/database"
	"verve/logger"
	"verve/middleware"
	authRoutes "verve/routers/authRoutes"
	courseRoutes "verve/routers/courseRoutes"
	jobRoutes "verve/routers/jobRoutes"
	courseService "verve/services/course"
	"verve/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	logger.SetGlobal(log)
	defer log.Sync()

	db, err := database.ConnectDb(cfg)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}

	svc := courseService.New(db, utils.NewMailer(cfg), objectStore(cfg, log), cfg.FrontendURL)

	app := fiber.New(fiber.Config{
		ErrorHandler:            middleware.ErrorHandler,
		BodyLimit:               110 << 20,
		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
		EnableIPValidation:      true,
	})

	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization,X-Request-ID",
	}))

	authRoutes.SetupAuthRoutes(app, db, cfg)
	courseRoutes.SetupCourseRoutes(app, svc)
	courseRoutes.SetupAdminCourseRoutes(app, svc)
	jobRoutes.SetupJobRoutes(app, svc, cfg.CronKey)

	go func() {
		log.Info("server is running", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	// let queued completion emails finish
	svc.Certificates.Wait()
}

// objectStore returns nil when B2 is not configured; uploads then fail with an internal error.
func objectStore(cfg *config.Config, log *logger.Logger) courseService.ObjectStore {
	if cfg.B2KeyID == "" || cfg.B2AppKey == "" || cfg.B2BucketName == "" {
		log.Warn("B2 storage is not configured, uploads are disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := utils.NewB2Storage(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2BucketName)
	if err != nil {
		log.Error("B2 storage unavailable, uploads are disabled", "error", err)
		return nil
	}
	return store
}
