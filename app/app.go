package app

import (
	"database/sql"

	"github.com/mbolis/quick-quiz/auth"
	"github.com/mbolis/quick-quiz/config"
	"github.com/mbolis/quick-quiz/database"
	"github.com/mbolis/quick-quiz/editor"
	"github.com/mbolis/quick-quiz/quizapi"
)

type App struct {
	*sql.DB
	config.Config

	Sessions database.Sessions
	Auth     *auth.Client
	Editors  *editor.Registry
}

func New(db *sql.DB, cfg config.Config) App {
	return App{
		DB:       db,
		Config:   cfg,
		Sessions: database.NewSessions(db),
		Auth:     auth.New(cfg.AuthUrl, cfg.RequestTimeout),
		Editors:  editor.NewRegistry(),
	}
}

// QuizAPI returns a Quiz API client authenticated as session.
func (app App) QuizAPI(session *auth.Session) *quizapi.Client {
	return quizapi.New(app.APIUrl, session, app.RequestTimeout)
}
