package httpx

import (
	"net/http"
	"strings"

	"github.com/canova-hq/canova-server/model"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeJSON parses the request body without structural validation.
func DecodeJSON(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return model.Invalid("Invalid request body")
	}
	return nil
}

// DecodeValid parses the request body and checks the payload's validate
// tags; the first failing field names the error.
func DecodeValid(r *http.Request, v any) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors, ok := err.(validator.ValidationErrors); ok {
			fieldErrs = errors
		}
		if len(fieldErrs) > 0 {
			f := fieldErrs[0]
			if f.Tag() == "required" {
				return model.Invalid(strings.ToLower(f.Field()) + " is required")
			}
			return model.Invalid("invalid " + strings.ToLower(f.Field()))
		}
		return model.Invalid("Invalid request body")
	}
	return nil
}
