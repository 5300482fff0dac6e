package routes

import (
	"net/http"

	"github.com/canova-hq/canova-server/app"
	"github.com/canova-hq/canova-server/routes/middlewares"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Mount("/", servePublicFiles(app.PublicDir))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/health", Health())

	api.Route("/auth", func(r chi.Router) {
		r.Post("/signup", Signup(app))
		r.Post("/login", Login(app))
		r.Post("/forgot-password", ForgotPassword(app))
		r.Post("/verify-otp", VerifyOTP(app))
		r.Post("/reset-password", ResetPassword(app))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.Auth(app))
			r.Get("/me", Me())
			r.Patch("/me", UpdateMe(app))
			r.Patch("/settings", UpdateSettings(app))
		})
	})

	// respondent-facing endpoints, no auth
	api.Get("/forms/public/slug/{slug}", PublicFormBySlug(app))
	api.Post("/responses/form/{formId}", SubmitResponse(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Auth(app))

		r.Route("/forms", func(r chi.Router) {
			r.Get("/", ListForms(app))
			r.Post("/project/{projectId}", CreateForm(app))
			r.Get("/{id}", GetForm(app))
			r.Put("/{id}", UpdateForm(app))
			r.Patch("/{id}/rename", RenameForm(app))
			r.Post("/{id}/copy", CopyForm(app))
			r.Post("/{id}/publish", PublishForm(app))
			r.Post("/{id}/share", ShareForm(app))
			r.Delete("/{id}", DeleteForm(app))
			r.Get("/{id}/responses", ListResponses(app))
			r.Get("/{id}/responses/summary", ResponseSummary(app))
			r.Get("/{id}/responses/analytics", ResponseAnalytics(app))
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", ListProjects(app))
			r.Post("/", CreateProject(app))
			r.Get("/recent", RecentWork(app))
			r.Patch("/{id}/rename", RenameProject(app))
			r.Post("/{id}/copy", CopyProject(app))
			r.Post("/{id}/share", ShareProject(app))
			r.Delete("/{id}", DeleteProject(app))
		})

		r.Get("/shared", SharedForms(app))
	})

	return api
}

func servePublicFiles(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}
