package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := map[Kind]int{
		KindValidation: http.StatusUnprocessableEntity,
		KindAuth:       http.StatusUnauthorized,
		KindForbidden:  http.StatusForbidden,
		KindNotFound:   http.StatusNotFound,
		KindInternal:   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusOf(kind))
	}
}

func TestInternal_KeepsClassifiedErrors(t *testing.T) {
	nf := NotFound("No such post available")
	wrapped := fmt.Errorf("loading post: %w", nf)

	got := Internal("failed", wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.True(t, Is(wrapped, KindNotFound))

	plain := Internal("failed to save", errors.New("connection reset"))
	assert.Equal(t, KindInternal, plain.Kind)
	assert.ErrorContains(t, plain, "connection reset")
}

func TestToResponse(t *testing.T) {
	resp := ToResponse(Validation("Validation failed", FieldError{Field: "title", Message: "is required"}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "title", resp.Data[0].Field)

	resp = ToResponse(errors.New("pq: something broke"))
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, "An error occurred.", resp.Message)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/forbidden", func(c *gin.Context) {
		_ = c.Error(Forbidden("You are not authorized!"))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "fine"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forbidden", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "You are not authorized!", body.Message)
	assert.Equal(t, http.StatusForbidden, body.Status)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
