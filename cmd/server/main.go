package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nmoreno/user-auth-api/internal/config"
	"github.com/nmoreno/user-auth-api/internal/database"
	"github.com/nmoreno/user-auth-api/internal/handler"
	"github.com/nmoreno/user-auth-api/internal/queue"
	"github.com/nmoreno/user-auth-api/internal/repository"
	"github.com/nmoreno/user-auth-api/internal/router"
	"github.com/nmoreno/user-auth-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables rate limiting
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	ledger := repository.NewTokenLedger(db)
	tokens := service.NewTokenService(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour,
		ledger,
	)

	// Audit-log consumer for auth events; reconnects on its own.
	go func() {
		if err := queue.StartAuthEventConsumer(); err != nil {
			log.Printf("auth-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	a := handler.NewAuthHandler(cfg, users, tokens, service.Publisher{})
	router.RegisterRoutes(e)
	router.RegisterAuth(e, a, cfg, tokens, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
