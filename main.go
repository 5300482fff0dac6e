package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/canova-hq/canova-server/app"
	"github.com/canova-hq/canova-server/config"
	"github.com/canova-hq/canova-server/database"
	"github.com/canova-hq/canova-server/log"
	"github.com/canova-hq/canova-server/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	handler := routes.Wire(app.New(db, cfg))

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
