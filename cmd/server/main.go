package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/billing"
	"github.com/iliyamo/smart-parking/internal/config"
	"github.com/iliyamo/smart-parking/internal/database"
	"github.com/iliyamo/smart-parking/internal/handler"
	"github.com/iliyamo/smart-parking/internal/mailer"
	"github.com/iliyamo/smart-parking/internal/middleware"
	"github.com/iliyamo/smart-parking/internal/queue"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/router"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.EnsureAdmin(ctx, db, cfg.BcryptCost); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	slots := repository.NewSlotRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	payments := repository.NewPaymentRepo(db)
	settings := repository.NewSettingRepo(db)

	calculator := billing.NewCalculator()
	if err := calculator.Reload(ctx, settings); err != nil {
		log.Printf("rates: falling back to defaults: %v", err)
	}
	mail := mailer.New(mailer.Config{})
	if err := mail.Reload(ctx, settings); err != nil {
		log.Printf("mailer: loading smtp settings failed: %v", err)
	}

	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	publisher := queue.NewPublisher()
	defer publisher.Close()

	authH := handler.NewAuthHandler(cfg, users, tokens)
	vehicleH := handler.NewVehicleHandler(vehicles, slots)
	slotH := handler.NewSlotHandler(slots)
	paymentH := handler.NewPaymentHandler(cfg, payments, vehicles, slots, users, calculator, publisher)
	adminUserH := handler.NewAdminUserHandler(cfg, users, tokens)
	settingsH := handler.NewSettingsHandler(settings, calculator, mail)
	reportH := handler.NewReportHandler(cfg, payments, vehicles, slots)

	e := echo.New()
	e.HideBanner = true
	e.Use(rateMW)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterOperator(e, vehicleH, paymentH, slotH, cfg.JWTSecret, cacheMW)
	router.RegisterAdmin(e, adminUserH, slotH, settingsH, reportH, cfg.JWTSecret, cacheMW)

	// Background consumer: emails receipts and appends the audit log.
	go func() {
		if err := queue.StartReceiptConsumer(mail); err != nil {
			log.Printf("receipt consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
