package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "campusmarket/pkg/errors"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSuccessEnvelope(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Success(c, map[string]string{"hello": "world"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.NotEmpty(t, body.Timestamp)
}

func TestCreatedEnvelope(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Created(c, map[string]string{"id": "abc"}))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestErrorEnvelopeFromAppError(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Error(c, apperrors.Forbidden("Not yours", nil)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Equal(t, "Not yours", body.Error.Message)
}

func TestErrorEnvelopeFromUnknownError(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Error(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	// Internal details never leak to clients.
	assert.NotContains(t, body.Error.Message, assert.AnError.Error())
}

func TestValidationErrorTranslation(t *testing.T) {
	c, rec := newTestContext()

	type payload struct {
		Rating int `validate:"required,min=1,max=5"`
	}
	err := validator.New().Struct(payload{Rating: 9})
	require.Error(t, err)

	require.NoError(t, Error(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Message, "rating")
}

func TestPaginatedEnvelope(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Paginated(c, []int{1, 2, 3}, 7, 1, 3))

	var body struct {
		Success bool              `json:"success"`
		Data    PaginatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(7), body.Data.Total)
	assert.Equal(t, 3, body.Data.TotalPages)
}
