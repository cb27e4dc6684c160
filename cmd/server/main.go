package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mkravets/class-booking/internal/config"
	"github.com/mkravets/class-booking/internal/database"
	"github.com/mkravets/class-booking/internal/handler"
	"github.com/mkravets/class-booking/internal/middleware"
	"github.com/mkravets/class-booking/internal/queue"
	"github.com/mkravets/class-booking/internal/repository"
	"github.com/mkravets/class-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repository.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	sessionRepo := repository.NewSessionRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	reindexer := repository.NewScheduleReindexer(db)

	// Redis is optional: without it the schedule listing is uncached and
	// requests are not rate limited, but the API stays fully functional.
	rdb := config.NewRedisClient()
	var cacheMW, limiterMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		limiterMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(reservationRepo, settingRepo), cacheMW)
	router.RegisterBooking(e, handler.NewBookingHandler(reservationRepo), cfg.JWTSecret, limiterMW)
	router.RegisterAdmin(e,
		handler.NewAdminHandler(sessionRepo, reservationRepo, settingRepo, reindexer),
		cfg.JWTSecret, cfg.IsAdmin)

	// The consumer reconnects on its own; it only returns on a
	// configuration-level failure, which we surface in the log.
	go func() {
		if err := queue.StartNotificationConsumer(queue.FileNotifier{}); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
