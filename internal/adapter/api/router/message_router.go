package router

import (
	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/handler"
	"campusmarket/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	messageHandler := handler.GetMessageHandler()

	messages := e.Group("/v1/messages")
	messages.Use(authMiddleware.Authenticate)

	messages.GET("/conversations", messageHandler.ListConversations)
	messages.GET("/conversations/:id", messageHandler.GetMessages)
	messages.GET("/unread", messageHandler.GetUnreadCount)
	messages.POST("", messageHandler.SendMessage)
}
