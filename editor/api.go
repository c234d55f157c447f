package editor

import (
	"context"

	"github.com/mbolis/quick-quiz/model"
)

// API is the part of the Quiz API an editing session needs. It is satisfied
// by *quizapi.Client.
type API interface {
	GetQuiz(ctx context.Context, quizID model.ID) (model.Quiz, error)
	UpdateQuiz(ctx context.Context, quizID model.ID, fields model.QuizFields) (model.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID model.ID) error

	GetQuestion(ctx context.Context, quizID, questionID model.ID) (model.Question, error)
	CreateQuestion(ctx context.Context, quizID model.ID, fields model.QuestionFields) (model.Question, error)
	UpdateQuestion(ctx context.Context, quizID, questionID model.ID, fields model.QuestionFields) (model.Question, error)
	DeleteQuestion(ctx context.Context, quizID, questionID model.ID) error

	CreateChoice(ctx context.Context, questionID model.ID, content string) (model.Choice, error)
	UpdateChoice(ctx context.Context, questionID, choiceID model.ID, content string) error
	DeleteChoice(ctx context.Context, questionID, choiceID model.ID) error
}
