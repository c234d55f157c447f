package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-quiz/app"
	"github.com/mbolis/quick-quiz/editor"
	"github.com/mbolis/quick-quiz/httpx"
	"github.com/mbolis/quick-quiz/log"
	"github.com/mbolis/quick-quiz/model"
	"github.com/mbolis/quick-quiz/routes/middlewares"
)

func quizID(r *http.Request) model.ID {
	return model.ID(chi.URLParam(r, "quizId"))
}

func questionID(r *http.Request) model.ID {
	return model.ID(chi.URLParam(r, "questionId"))
}

// openEditor returns the editing session of the requested quiz, fetching the
// quiz on first use. Concurrent requests wait for that first fetch.
func openEditor(app app.App, w http.ResponseWriter, r *http.Request) (*editor.Coordinator, bool) {
	session := middlewares.Session(r.Context())
	id := quizID(r)

	c, created := app.Editors.Open(session.ID, id, func() editor.API {
		return app.QuizAPI(session)
	})
	if !created {
		err := c.Ready(r.Context())
		if err != nil {
			httpx.LogError(w, "editor.open", err)
			return nil, false
		}
		return c, true
	}

	err := c.FetchQuiz(r.Context())
	if err != nil {
		app.Editors.Close(session.ID, id)
		httpx.LogError(w, "editor.fetch_quiz", err)
		return nil, false
	}
	return c, true
}

func renderQuiz(w http.ResponseWriter, r *http.Request, c *editor.Coordinator) {
	view, err := c.Snapshot()
	if err != nil {
		httpx.LogError(w, "editor.snapshot", err)
		return
	}
	render.JSON(w, r, view)
}

func renderQuestion(w http.ResponseWriter, r *http.Request, c *editor.Coordinator, id model.ID) {
	view, err := c.Snapshot()
	if err != nil {
		httpx.LogError(w, "editor.snapshot", err)
		return
	}
	for _, q := range view.Questions {
		if q.ID == id {
			render.JSON(w, r, q)
			return
		}
	}
	httpx.LogNotFound(w, "editor.question", id)
}

func GetQuiz(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		if r.URL.Query().Get("reload") == "true" {
			err := c.FetchQuiz(r.Context())
			if err != nil {
				httpx.LogError(w, "editor.fetch_quiz", err)
				return
			}
		}
		renderQuiz(w, r, c)
	}
}

func UpdateQuiz(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := quizRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		fields, err := req.fields()
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "update_quiz.validate", "%s", err)
			return
		}

		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err = c.UpdateQuiz(r.Context(), fields)
		if err != nil {
			httpx.LogError(w, "editor.update_quiz", err)
			return
		}
		renderQuiz(w, r, c)
	}
}

func DeleteQuiz(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err := c.DeleteQuiz(r.Context())
		if err != nil {
			httpx.LogError(w, "editor.delete_quiz", err)
			return
		}
		app.Editors.Close(middlewares.Session(r.Context()).ID, quizID(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

// CloseEditor is called when the user navigates away from the quiz.
func CloseEditor(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app.Editors.Close(middlewares.Session(r.Context()).ID, quizID(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

func ValidateQuiz(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err := c.Validate()
		if errors.Is(err, editor.ErrDetached) {
			httpx.LogError(w, "editor.validate", err)
			return
		}

		issues := []string{}
		for _, issue := range editor.Issues(err) {
			issues = append(issues, issue.Error())
		}
		render.JSON(w, r, map[string]any{
			"valid":  len(issues) == 0,
			"issues": issues,
		})
	}
}

func AddQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := questionRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Content == nil || *req.Content == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "add_question.validate", "content is required")
			return
		}

		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		id, err := c.AddQuestion(r.Context(), req.fields())
		if err != nil {
			httpx.LogError(w, "editor.add_question", err)
			return
		}
		render.Status(r, http.StatusCreated)
		renderQuestion(w, r, c, id)
	}
}

func GetQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		if r.URL.Query().Get("reload") == "true" {
			err := c.FetchQuestion(r.Context(), questionID(r))
			if err != nil {
				httpx.LogError(w, "editor.fetch_question", err)
				return
			}
		}
		renderQuestion(w, r, c, questionID(r))
	}
}

func UpdateQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := questionRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err = c.UpdateQuestion(r.Context(), questionID(r), req.fields())
		if err != nil {
			httpx.LogError(w, "editor.update_question", err)
			return
		}
		renderQuestion(w, r, c, questionID(r))
	}
}

func DeleteQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err := c.DeleteQuestion(r.Context(), questionID(r))
		if err != nil {
			httpx.LogError(w, "editor.delete_question", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AppendChoice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := contentRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil || req.Content == nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		_, err = c.AppendChoice(questionID(r), *req.Content)
		if err != nil {
			httpx.LogError(w, "editor.append_choice", err)
			return
		}
		render.Status(r, http.StatusCreated)
		renderQuestion(w, r, c, questionID(r))
	}
}

func UpdateChoice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := contentRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil || req.Content == nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err = c.UpdateChoice(questionID(r), chi.URLParam(r, "key"), *req.Content)
		if err != nil {
			httpx.LogError(w, "editor.update_choice", err)
			return
		}
		renderQuestion(w, r, c, questionID(r))
	}
}

func SaveChoice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err := c.SaveChoice(r.Context(), questionID(r), chi.URLParam(r, "key"))
		if err != nil {
			httpx.LogError(w, "editor.save_choice", err)
			return
		}
		renderQuestion(w, r, c, questionID(r))
	}
}

func DeleteChoice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err := c.DeleteChoice(r.Context(), questionID(r), chi.URLParam(r, "key"))
		if err != nil {
			httpx.LogError(w, "editor.delete_choice", err)
			return
		}
		renderQuestion(w, r, c, questionID(r))
	}
}

func MoveChoice(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := moveRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil || req.From == nil || req.To == nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		c, ok := openEditor(app, w, r)
		if !ok {
			return
		}
		err = c.MoveChoice(questionID(r), *req.From, *req.To)
		if err != nil {
			httpx.LogError(w, "editor.move_choice", err)
			return
		}
		renderQuestion(w, r, c, questionID(r))
	}
}
