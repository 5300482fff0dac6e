package routes

import (
	"net/http"

	"github.com/canova-hq/canova-server/app"
	"github.com/canova-hq/canova-server/httpx"
	"github.com/canova-hq/canova-server/lifecycle"
	"github.com/canova-hq/canova-server/model"
	"github.com/canova-hq/canova-server/routes/middlewares"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		forms, err := app.Forms.List(r.Context(), owner.ID)
		if err != nil {
			httpx.WriteError(w, r, "db.get_forms", err)
			return
		}
		render.JSON(w, r, forms)
	}
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)
		projectID := chi.URLParam(r, "projectId")

		body := struct {
			Name string `json:"name"`
		}{}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.WriteError(w, r, "create_form.parse_body", err)
			return
		}

		form, err := app.Forms.Create(r.Context(), owner.ID, projectID, body.Name)
		if err != nil {
			httpx.WriteError(w, r, "create_form", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, form)
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		form, err := app.Forms.ByID(r.Context(), owner.ID, chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "db.get_form", err)
			return
		}
		render.JSON(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		patch := lifecycle.FormPatch{}
		if err := httpx.DecodeJSON(r, &patch); err != nil {
			httpx.WriteError(w, r, "update_form.parse_body", err)
			return
		}

		form, err := app.Forms.Update(r.Context(), owner.ID, chi.URLParam(r, "id"), patch)
		if err != nil {
			httpx.WriteError(w, r, "update_form", err)
			return
		}
		render.JSON(w, r, form)
	}
}

func RenameForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		body := struct {
			Name string `json:"name"`
		}{}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.WriteError(w, r, "rename_form.parse_body", err)
			return
		}

		form, err := app.Forms.Rename(r.Context(), owner.ID, chi.URLParam(r, "id"), body.Name)
		if err != nil {
			httpx.WriteError(w, r, "rename_form", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"message": "Form renamed",
			"form":    form,
		})
	}
}

func CopyForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		form, err := app.Forms.Copy(r.Context(), owner.ID, chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "copy_form", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message": "Form copied",
			"form":    form,
		})
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		err := app.Forms.Delete(r.Context(), owner.ID, chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "delete_form", err)
			return
		}
		render.JSON(w, r, map[string]any{"message": "Form deleted"})
	}
}

func PublishForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		opts := lifecycle.PublishOptions{}
		if err := httpx.DecodeJSON(r, &opts); err != nil {
			httpx.WriteError(w, r, "publish_form.parse_body", err)
			return
		}

		form, err := app.Forms.Publish(r.Context(), owner.ID, chi.URLParam(r, "id"), opts)
		if err != nil {
			httpx.WriteError(w, r, "publish_form", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"message":    "Form published",
			"publicSlug": form.PublicSlug,
		})
	}
}

func ShareForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		body := struct {
			AccessType    model.AccessType `json:"accessType"`
			AllowedEmails []string         `json:"allowedEmails"`
		}{}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.WriteError(w, r, "share_form.parse_body", err)
			return
		}

		form, err := app.Forms.Share(r.Context(), owner.ID, chi.URLParam(r, "id"), body.AccessType, body.AllowedEmails)
		if err != nil {
			httpx.WriteError(w, r, "share_form", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"message":    "Share link ready",
			"publicSlug": form.PublicSlug,
			"shareLink":  "/respond/" + form.PublicSlug,
		})
	}
}

func ListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		responses, err := app.Forms.Responses(r.Context(), owner.ID, chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "db.get_responses", err)
			return
		}
		render.JSON(w, r, map[string]any{"responses": responses})
	}
}

func ResponseSummary(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		summary, err := app.Forms.Summary(r.Context(), owner.ID, chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "response_summary", err)
			return
		}
		render.JSON(w, r, summary)
	}
}

func ResponseAnalytics(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		summary, err := app.Forms.Analytics(r.Context(), owner.ID, chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "response_analytics", err)
			return
		}
		render.JSON(w, r, summary)
	}
}

// SharedForms lists published restricted forms that allow the caller's email.
func SharedForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.CurrentUser(r)

		forms, err := app.Forms.Shared(r.Context(), user.Email)
		if err != nil {
			httpx.WriteError(w, r, "db.get_shared_forms", err)
			return
		}
		render.JSON(w, r, forms)
	}
}
