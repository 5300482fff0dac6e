package routes

import (
	"net/http"

	"github.com/canova-hq/canova-server/app"
	"github.com/canova-hq/canova-server/httpx"
	"github.com/canova-hq/canova-server/routes/middlewares"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func CreateProject(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		body := struct {
			Name            string `json:"name"`
			InitialFormName string `json:"initialFormName"`
		}{}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.WriteError(w, r, "create_project.parse_body", err)
			return
		}

		project, form, err := app.Projects.Create(r.Context(), owner.ID, body.Name, body.InitialFormName)
		if err != nil {
			httpx.WriteError(w, r, "create_project", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"project":     project,
			"initialForm": form,
		})
	}
}

func ListProjects(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		projects, err := app.Projects.List(r.Context(), owner.ID)
		if err != nil {
			httpx.WriteError(w, r, "db.get_projects", err)
			return
		}
		render.JSON(w, r, projects)
	}
}

func RecentWork(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		recent, err := app.Projects.Recent(r.Context(), owner.ID)
		if err != nil {
			httpx.WriteError(w, r, "db.get_recent", err)
			return
		}
		render.JSON(w, r, recent)
	}
}

func RenameProject(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		body := struct {
			Name string `json:"name"`
		}{}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.WriteError(w, r, "rename_project.parse_body", err)
			return
		}

		project, err := app.Projects.Rename(r.Context(), owner.ID, chi.URLParam(r, "id"), body.Name)
		if err != nil {
			httpx.WriteError(w, r, "rename_project", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"message": "Project renamed",
			"project": project,
		})
	}
}

func CopyProject(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		project, err := app.Projects.Copy(r.Context(), owner.ID, chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "copy_project", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message": "Project copied",
			"project": project,
		})
	}
}

func DeleteProject(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)

		err := app.Projects.Delete(r.Context(), owner.ID, chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, r, "delete_project", err)
			return
		}
		render.JSON(w, r, map[string]any{"message": "Project deleted"})
	}
}

func ShareProject(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middlewares.CurrentUser(r)
		id := chi.URLParam(r, "id")

		link, err := app.Projects.ShareLink(r.Context(), owner.ID, id)
		if err != nil {
			httpx.WriteError(w, r, "share_project", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"message":   "Share link ready",
			"shareLink": link,
			"projectId": id,
		})
	}
}
