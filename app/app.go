package app

import (
	"database/sql"

	"github.com/canova-hq/canova-server/config"
	"github.com/canova-hq/canova-server/lifecycle"
	"github.com/canova-hq/canova-server/mail"
	"github.com/canova-hq/canova-server/store"
	"github.com/go-chi/jwtauth"
)

// App bundles the constructed collaborators handlers close over. Everything
// is wired once at startup; there are no package-level singletons.
type App struct {
	*store.Store
	*jwtauth.JWTAuth
	config.Config

	Forms    *lifecycle.Forms
	Projects *lifecycle.Projects
	Mailer   mail.Mailer
}

func New(db *sql.DB, cfg config.Config) App {
	st := store.New(db)
	forms := &lifecycle.Forms{Store: st}

	return App{
		Store:    st,
		JWTAuth:  jwtauth.New("HS256", []byte(cfg.TokenSecret), nil),
		Config:   cfg,
		Forms:    forms,
		Projects: &lifecycle.Projects{Store: st, Forms: forms},
		Mailer:   mail.NewSender(cfg),
	}
}
