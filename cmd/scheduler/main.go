// Command scheduler fires the API's job endpoints on a cron schedule. The API process
// itself runs no timers.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/robfig/cron/v3"

	"verve/config"
	"verve/logger"
)

const defaultExpireSchedule = "@hourly"

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	logger.SetGlobal(log)
	defer log.Sync()

	if cfg.CronKey == "" {
		log.Fatal("CRON_KEY is required to call job endpoints")
	}

	schedule := os.Getenv("SUBSCRIPTION_EXPIRE_SCHEDULE")
	if schedule == "" {
		schedule = defaultExpireSchedule
	}

	trigger := NewTrigger(resty.New().SetTimeout(time.Minute), cfg.APIBaseURL, cfg.CronKey)

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		expired, err := trigger.ExpireSubscriptions()
		if err != nil {
			log.Error("subscription expiry job failed", "error", err)
			return
		}
		log.Info("subscription expiry job finished", "expired", expired)
	}); err != nil {
		log.Fatal("invalid schedule", "schedule", schedule, "error", err)
	}
	c.Start()
	log.Info("scheduler started", "schedule", schedule, "api", cfg.APIBaseURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
	log.Info("scheduler stopped")
}
