// Package httpx translates domain errors into the uniform JSON error body
// every handler emits, and decodes request payloads with validation.
package httpx

import (
	"errors"
	"net/http"

	"github.com/canova-hq/canova-server/log"
	"github.com/canova-hq/canova-server/model"
	"github.com/go-chi/render"
)

// WriteError renders err as a {"message": ...} body. Domain errors carry
// their own message and status; anything else is logged under code and
// hidden behind a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, code string, err error) {
	var domainErr *model.Error
	if !errors.As(err, &domainErr) {
		log.Errorf("%s: %s", code, err)
		writeMessage(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	log.Debugf("%s: %s", code, domainErr.Message)
	writeMessage(w, r, statusOf(domainErr.Kind), domainErr.Message)
}

func statusOf(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindNotFound, model.KindNotPublished:
		// unpublished forms 404 like missing ones, so existence never leaks
		return http.StatusNotFound
	case model.KindAccessDenied:
		return http.StatusForbidden
	case model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"message": message})
}
