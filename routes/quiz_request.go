package routes

import (
	"fmt"

	"github.com/mbolis/quick-quiz/model"
)

// quizRequest carries quiz metadata from the view. Duration is either a
// number of seconds or HH:MM:SS.
type quizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Duration    *string `json:"duration"`
	StartTime   *string `json:"start_time"`
	Password    *string `json:"password"`
}

func (req quizRequest) fields() (fields model.QuizFields, err error) {
	fields.Title = req.Title
	fields.Description = req.Description
	fields.Password = req.Password
	if req.Duration != nil {
		secs, err := model.ParseDuration(*req.Duration)
		if err != nil {
			return fields, fmt.Errorf("duration: %w", err)
		}
		fields.Duration = &secs
	}
	if req.StartTime != nil && *req.StartTime != "" {
		start, err := model.ParseTime(*req.StartTime)
		if err != nil {
			return fields, fmt.Errorf("start_time: %w", err)
		}
		fields.StartTime = &start
	}
	return fields, nil
}

type questionRequest struct {
	Content       *string   `json:"content"`
	Type          *string   `json:"type"`
	CorrectChoice *model.ID `json:"correct_choice"`
}

func (req questionRequest) fields() model.QuestionFields {
	return model.QuestionFields{
		Content:       req.Content,
		Type:          req.Type,
		CorrectChoice: req.CorrectChoice,
	}
}

type contentRequest struct {
	Content *string `json:"content"`
}

type moveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}
