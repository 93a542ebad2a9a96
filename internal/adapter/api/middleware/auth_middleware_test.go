package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/internal/usecase"
	"campusmarket/pkg/errors"
)

type stubIdentityProvider struct {
	uid string
	err error
}

func (p *stubIdentityProvider) VerifyToken(ctx context.Context, token string) (string, usecase.ProfileHints, error) {
	if p.err != nil {
		return "", usecase.ProfileHints{}, p.err
	}
	return p.uid, usecase.ProfileHints{Name: "Verified Name"}, nil
}

func (p *stubIdentityProvider) GetProfile(ctx context.Context, uid string) (usecase.ProfileHints, error) {
	return usecase.ProfileHints{}, nil
}

type stubUserRepo struct {
	repository.UserRepository
	created map[string]*entity.User
}

func (r *stubUserRepo) CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, bool, error) {
	if existing, ok := r.created[user.ID]; ok {
		return existing, false, nil
	}
	r.created[user.ID] = user
	return user, true, nil
}

func newFixture(provider *stubIdentityProvider) (*AuthMiddleware, *stubUserRepo) {
	userRepo := &stubUserRepo{created: make(map[string]*entity.User)}
	identityUseCase := usecase.NewIdentityUseCase(userRepo, provider)
	return NewAuthMiddleware(provider, identityUseCase), userRepo
}

func invoke(m *AuthMiddleware, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.Authenticate(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return rec, c, handler(c)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	m, _ := newFixture(&stubIdentityProvider{uid: "uid-1"})

	_, _, err := invoke(m, "")
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	m, _ := newFixture(&stubIdentityProvider{uid: "uid-1"})

	_, _, err := invoke(m, "Basic abc123")
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	m, _ := newFixture(&stubIdentityProvider{err: errors.Unauthorized("bad token", nil)})

	_, _, err := invoke(m, "Bearer expired-token")
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateSetsUIDAndMaterializesUser(t *testing.T) {
	m, userRepo := newFixture(&stubIdentityProvider{uid: "uid-42"})

	rec, c, err := invoke(m, "Bearer good-token")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uid-42", c.Get("uid"))
	assert.Contains(t, userRepo.created, "uid-42")
}
