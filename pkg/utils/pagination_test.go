package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func paramsFor(target string) PaginationParams {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return GetPaginationParams(e.NewContext(req, rec))
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsFor("/v1/listings")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
	assert.Equal(t, 0, params.Offset)
}

func TestGetPaginationParamsExplicit(t *testing.T) {
	params := paramsFor("/v1/listings?page=3&limit=10")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 10, params.PageSize)
	assert.Equal(t, 20, params.Offset)
}

func TestGetPaginationParamsClampsBadInput(t *testing.T) {
	params := paramsFor("/v1/listings?page=-2&limit=9999")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
}
