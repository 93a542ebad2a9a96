package router

import (
	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupUserRouter(e, authMiddleware)
	SetupListingRouter(e, authMiddleware)
	SetupMessageRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
