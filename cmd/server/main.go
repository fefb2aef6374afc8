package main

import (
	"log"
	"net/http"

	_ "eventhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"eventhub/internal/auth"
	"eventhub/internal/cache"
	"eventhub/internal/config"
	"eventhub/internal/db"
	"eventhub/internal/handler"
	"eventhub/internal/model"
	"eventhub/internal/repository"
	"eventhub/internal/router"
	"eventhub/internal/service"
)

// @title EventHub API
// @version 1.0
// @description Event publishing and registration API with capacity-bounded admission and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.Registration{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	registrationRepo := repository.NewRegistrationRepository(gormDB)

	// Initialize auth components
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenService, sessionStore, cfg.BcryptCost)
	eventService := service.NewEventService(eventRepo, userRepo, cacheClient, service.EventImages{
		Onsite:  cfg.OnsiteImageURL,
		Virtual: cfg.VirtualImageURL,
	})
	registrationService := service.NewRegistrationService(eventRepo, registrationRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	eventHandler := handler.NewEventHandler(eventService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		eventHandler,
		registrationHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
