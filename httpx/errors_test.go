package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canova-hq/canova-server/model"
	"github.com/stretchr/testify/assert"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", model.Invalid("Form name is required"), http.StatusBadRequest, `{"message":"Form name is required"}`},
		{"not found", model.NotFound("Form not found"), http.StatusNotFound, `{"message":"Form not found"}`},
		{"not published", model.NotPublished("Form not found or not published"), http.StatusNotFound, `{"message":"Form not found or not published"}`},
		{"access denied", model.AccessDenied("You do not have access to respond"), http.StatusForbidden, `{"message":"You do not have access to respond"}`},
		{"conflict", model.Conflict("Email already in use"), http.StatusConflict, `{"message":"Email already in use"}`},
		{"unavailable", model.Unavailable("Email delivery unavailable"), http.StatusInternalServerError, `{"message":"Email delivery unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			WriteError(w, r, "test", tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestWriteErrorHidesUnexpectedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(w, r, "test", errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "disk")
}
