package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotas-rs/service-tripcost/internal/platform/apperr"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperr.NewValidationError("bad")))
	assert.Equal(t, http.StatusNotFound, StatusFor(apperr.NewNotFoundError("estimate", "s1")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(apperr.NewUnavailableError("osrm down", errors.New("timeout"))))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
	assert.Equal(t, http.StatusNotFound, StatusFor(fmtWrap(apperr.NewNotFoundError("estimate", "s1"))))
}

func TestError_HidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, apperr.NewInternalError("failed", errors.New("password=secret")))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "internal server error", env.Error)
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("context"), err)
}
