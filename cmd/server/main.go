package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"moneytrack/internal/auth"
	"moneytrack/internal/cache"
	"moneytrack/internal/config"
	"moneytrack/internal/db"
	"moneytrack/internal/handler"
	"moneytrack/internal/model"
	"moneytrack/internal/repository"
	"moneytrack/internal/router"
	"moneytrack/internal/service"
)

// @title Moneytrack API
// @version 1.0
// @description Personal finance tracking API with JWT authentication, categories and expense/income records.
// @host localhost:5000
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

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Record{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	recordRepo := repository.NewRecordRepository(gormDB)

	// Initialize token service
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	recordService := service.NewRecordService(recordRepo, categoryRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	recordHandler := handler.NewRecordHandler(recordService)

	// Register routes
	router.Register(e, tokens, authHandler, userHandler, categoryHandler, recordHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
