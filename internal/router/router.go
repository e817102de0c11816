package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"moneytrack/internal/auth"
	"moneytrack/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	tokens *auth.TokenService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	recordHandler *handler.RecordHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Refresh runs behind the unverified gate: the access token is
	// expected to have just expired, only its userId is read.
	api.POST("/auth/refresh", authHandler.Refresh, auth.DecodeGate(tokens))

	// Everything below requires a live access token.
	secured := api.Group("", auth.Gate(tokens))

	secured.GET("/auth/logout", authHandler.Logout)

	secured.GET("/user/info", userHandler.GetInfo)
	secured.PATCH("/user/info", userHandler.UpdateInfo)

	secured.GET("/category/list", categoryHandler.List)
	secured.GET("/category/:id", categoryHandler.Get)
	secured.POST("/category", categoryHandler.Create)
	secured.PATCH("/category/:id", categoryHandler.Update)
	secured.DELETE("/category/:id", categoryHandler.Delete)

	secured.GET("/record/list", recordHandler.List)
	secured.GET("/record/list/:categoryId", recordHandler.ListByCategory)
	secured.GET("/record/:id", recordHandler.Get)
	secured.POST("/record", recordHandler.Create)
	secured.PATCH("/record/:id", recordHandler.Update)
	secured.DELETE("/record/:id", recordHandler.Delete)
}
