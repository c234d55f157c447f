package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/quick-quiz/app"
	"github.com/mbolis/quick-quiz/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middlewares.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/login", Login(app))
	api.Post("/register", Register(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.SessionAuth(app.Sessions))

		r.Post("/logout", Logout(app))

		r.Get("/quizzes", Dashboard(app))
		r.Post("/quizzes", CreateQuiz(app))

		r.Route(`/quizzes/{quizId:^\d+$}`, func(r chi.Router) {
			r.Get("/", GetQuiz(app))
			r.Patch("/", UpdateQuiz(app))
			r.Delete("/", DeleteQuiz(app))
			r.Delete("/editor", CloseEditor(app))
			r.Get("/validation", ValidateQuiz(app))

			r.Post("/questions", AddQuestion(app))
			r.Route(`/questions/{questionId:^\d+$}`, func(r chi.Router) {
				r.Get("/", GetQuestion(app))
				r.Patch("/", UpdateQuestion(app))
				r.Delete("/", DeleteQuestion(app))

				r.Post("/choices", AppendChoice(app))
				r.Post("/choices/move", MoveChoice(app))
				r.Put("/choices/{key}", UpdateChoice(app))
				r.Post("/choices/{key}/save", SaveChoice(app))
				r.Delete("/choices/{key}", DeleteChoice(app))
			})
		})
	})

	return api
}
