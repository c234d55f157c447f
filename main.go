package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/quick-quiz/app"
	"github.com/mbolis/quick-quiz/config"
	"github.com/mbolis/quick-quiz/database"
	"github.com/mbolis/quick-quiz/log"
	"github.com/mbolis/quick-quiz/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	app := app.New(db, cfg)

	go purgeSessions(app.Sessions, time.Minute)

	handler := routes.Wire(app)

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
		WriteTimeout: 30*time.Second + cfg.RequestTimeout,
	}

	log.Info("Listening on " + cfg.Url())
	log.Infof("Quiz API at %s, Auth Service at %s", cfg.APIUrl, cfg.AuthUrl)
	return srv.ListenAndServe()
}

func purgeSessions(sessions database.Sessions, every time.Duration) {
	for now := range time.Tick(every) {
		n, err := sessions.PurgeExpired(context.Background(), now)
		if err != nil {
			log.Warnf("db.purge_sessions: %s", err)
			continue
		}
		if n > 0 {
			log.Debugf("db.purge_sessions: %d expired", n)
		}
	}
}
