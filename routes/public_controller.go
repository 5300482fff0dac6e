package routes

import (
	"net/http"

	"github.com/canova-hq/canova-server/app"
	"github.com/canova-hq/canova-server/httpx"
	"github.com/canova-hq/canova-server/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{"status": "ok"})
	}
}

// PublicFormBySlug serves a published form to respondents. The fetch counts
// as a view.
func PublicFormBySlug(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		form, err := app.Forms.PublicBySlug(r.Context(), slug)
		if err != nil {
			httpx.WriteError(w, r, "public.get_form", err)
			return
		}
		render.JSON(w, r, form)
	}
}

type submitBody struct {
	ResponderEmail string         `json:"responderEmail"`
	Answers        []model.Answer `json:"answers"`
}

func SubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formId")

		body := submitBody{}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.WriteError(w, r, "submit_response.parse_body", err)
			return
		}

		responseID, err := app.Forms.SubmitResponse(r.Context(), formID, body.ResponderEmail, body.Answers)
		if err != nil {
			httpx.WriteError(w, r, "submit_response", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message":    "Response submitted",
			"responseId": responseID,
		})
	}
}
