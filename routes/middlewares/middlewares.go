package middlewares

import (
	"context"
	"net/http"

	"github.com/canova-hq/canova-server/app"
	"github.com/canova-hq/canova-server/httpx"
	"github.com/canova-hq/canova-server/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
)

type userKey struct{}

// Auth verifies the bearer token and loads the owning user into the request
// context. Requests without a valid token or a live user get a 401.
func Auth(app app.App) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(jwtauth.Verifier(app.JWTAuth), authenticate(app)).Handler(next)
	}
}

func authenticate(app app.App) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				unauthorized(w)
				return
			}

			id, _ := claims["user_id"].(string)
			if id == "" {
				unauthorized(w)
				return
			}

			user, err := app.UserByID(r.Context(), id)
			if err != nil {
				if !model.IsNotFound(err) {
					httpx.WriteError(w, r, "auth.load_user", err)
					return
				}
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user loaded by Auth. Only call it
// below the Auth middleware.
func CurrentUser(r *http.Request) model.User {
	user, _ := r.Context().Value(userKey{}).(model.User)
	return user
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"Not authorized"}`))
}
