package router

import (
	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/handler"
	"campusmarket/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")

	users.GET("/me", userHandler.GetProfile, authMiddleware.Authenticate)
	users.POST("/sync", userHandler.SyncProfile, authMiddleware.Authenticate)
	users.PATCH("/me", userHandler.UpdateProfile, authMiddleware.Authenticate)
	users.DELETE("/me", userHandler.DeleteAccount, authMiddleware.Authenticate)

	users.GET("/:id", userHandler.GetPublicProfile)
	users.GET("/:id/listings", userHandler.GetUserListings)
}
