package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/ffe/backend/internal/infrastructure/logger"
	"github.com/ffe/backend/internal/interfaces/http/dto"
	"github.com/ffe/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, userID uuid.UUID) {
	c.Set(middleware.JWTUserIDKey, userID.String())
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set("request_id", "ctx-request-id") },
			expectedID: "ctx-request-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(logger.RequestIDHeader, "header-request-id") },
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-id")
				c.Request.Header.Set(logger.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/")
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/")
		id := uuid.New()
		setJWTContext(c, id)

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/")
		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/")
		c.Set(middleware.JWTUserIDKey, "not-a-uuid")
		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandler_SuccessAndCreated(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "/")
	h.Success(c, map[string]string{"key": "value"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)

	c, w = newTestContext(http.MethodPost, "/")
	h.Created(c, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_NoContent(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	router := gin.New()
	router.DELETE("/x", func(c *gin.Context) { h.NoContent(c) })

	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/x", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_ErrorIncludesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/")
	c.Set("request_id", "req-42")

	h.BadRequest(c, "bad")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestBaseHandler_ValidationFailed(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodPut, "/")

	var errs shared.ValidationErrors
	errs.Add("name", "can't be blank")
	errs.Add("postcode", "can't be blank")
	h.ValidationFailed(c, errs)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
	assert.Equal(t, "can't be blank", resp.Error.Details[0].Message)
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	var blank shared.ValidationErrors
	blank.Add("name", "can't be blank")

	tests := []struct {
		name         string
		err          error
		expectedCode int
		errCode      string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"conflict", shared.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, "INVALID_STATE"},
		{"upstream", shared.ErrUpstream.WithCause(errors.New("timeout")), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"wrapped domain error", fmt.Errorf("loading: %w", shared.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"validation errors", blank, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"generic error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/")

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.errCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleDomainError_NilIsNoop(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/")
	h.HandleDomainError(c, nil)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_HandleDomainError_HidesInternalDetails(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/")
	c.Set("logger", zap.New(core))

	h.HandleDomainError(c, errors.New("pq: connection refused"))

	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Equal(t, 1, logs.FilterMessage("Unexpected error").Len())
}

func TestBaseHandler_ParseIDParam(t *testing.T) {
	h := &BaseHandler{}

	c, _ := newTestContext(http.MethodGet, "/")
	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.parseIDParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newTestContext(http.MethodGet, "/")
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	_, ok = h.parseIDParam(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
}

func TestBaseHandler_CurrentUser(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/")

	_, ok := h.currentUser(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
