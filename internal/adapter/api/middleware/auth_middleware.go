package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/usecase"
	"campusmarket/pkg/response"
)

type AuthMiddleware struct {
	identityProvider usecase.IdentityProvider
	identityUseCase  *usecase.IdentityUseCase
}

func NewAuthMiddleware(identityProvider usecase.IdentityProvider, identityUseCase *usecase.IdentityUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		identityProvider: identityProvider,
		identityUseCase:  identityUseCase,
	}
}

// Authenticate verifies the bearer token and puts the caller's identity into
// the request context. The local user record is resolved lazily: every
// authenticated request upserts the shadow record so a first-time caller is
// materialized before any handler runs.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		uid, hints, err := m.identityProvider.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		if _, err := m.identityUseCase.ResolveOrCreateUser(c.Request().Context(), uid, hints); err != nil {
			return response.Error(c, err)
		}

		c.Set("uid", uid)

		return next(c)
	}
}
