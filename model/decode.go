package model

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-chi/render"
	"github.com/hashicorp/go-multierror"
)

var (
	errMissingID      = errors.New("missing id")
	errMissingContent = errors.New("missing content")
	errMissingTitle   = errors.New("missing title")
	errMissingChoices = errors.New("missing choices")
)

type choiceWire struct {
	ID      *wireID `json:"id"`
	Content *string `json:"content"`
}

func (w choiceWire) entity() (Choice, error) {
	var issues error
	if w.ID == nil {
		issues = multierror.Append(issues, errMissingID)
	}
	if w.Content == nil {
		issues = multierror.Append(issues, errMissingContent)
	}
	if issues != nil {
		return Choice{}, issues
	}
	return Choice{ID: ID(*w.ID), Content: *w.Content}, nil
}

type questionWire struct {
	ID            *wireID       `json:"id"`
	Content       *string       `json:"content"`
	Type          string        `json:"type"`
	CorrectChoice *wireID       `json:"correct_choice"`
	Choices       *[]choiceWire `json:"choices"`
}

func (w questionWire) entity(requireID bool) (Question, error) {
	var issues error
	if requireID && w.ID == nil {
		issues = multierror.Append(issues, errMissingID)
	}
	if w.Content == nil {
		issues = multierror.Append(issues, errMissingContent)
	}
	if w.Choices == nil {
		issues = multierror.Append(issues, errMissingChoices)
	}

	q := Question{Type: w.Type, CorrectChoice: w.CorrectChoice.ptr()}
	if w.ID != nil {
		q.ID = ID(*w.ID)
	}
	if w.Content != nil {
		q.Content = *w.Content
	}
	if w.Choices != nil {
		q.Choices = make([]Choice, 0, len(*w.Choices))
		for i, cw := range *w.Choices {
			c, err := cw.entity()
			if err != nil {
				issues = multierror.Append(issues, multierror.Prefix(err, fmt.Sprintf("choices[%d]:", i)))
				continue
			}
			q.Choices = append(q.Choices, c)
		}
	}
	if issues != nil {
		return Question{}, issues
	}
	return q, nil
}

type quizWire struct {
	ID          *wireID        `json:"id"`
	Title       *string        `json:"title"`
	Description string         `json:"description"`
	Password    *string        `json:"password"`
	Creator     *wireID        `json:"creator"`
	StartTime   *wireTime      `json:"start_time"`
	Duration    *wireDuration  `json:"duration"`
	Questions   []questionWire `json:"questions"`
}

func (w quizWire) entity() (Quiz, error) {
	var issues error
	if w.ID == nil {
		issues = multierror.Append(issues, errMissingID)
	}
	if w.Title == nil {
		issues = multierror.Append(issues, errMissingTitle)
	}

	quiz := Quiz{
		Description: w.Description,
		StartTime:   w.StartTime.ptr(),
		Questions:   make([]Question, 0, len(w.Questions)),
	}
	if w.ID != nil {
		quiz.ID = ID(*w.ID)
	}
	if w.Title != nil {
		quiz.Title = *w.Title
	}
	if w.Password != nil && *w.Password != "" {
		password := *w.Password
		quiz.Password = &password
	}
	if w.Creator != nil {
		quiz.Creator = ID(*w.Creator)
	}
	if w.Duration != nil {
		quiz.Duration = int(*w.Duration)
	}
	for i, qw := range w.Questions {
		q, err := qw.entity(true)
		if err != nil {
			issues = multierror.Append(issues, multierror.Prefix(err, fmt.Sprintf("questions[%d]:", i)))
			continue
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	if issues != nil {
		return Quiz{}, issues
	}
	return quiz, nil
}

type submissionWire struct {
	User       *wireID      `json:"user"`
	Quiz       *wireID      `json:"quiz"`
	Score      *wireDecimal `json:"score"`
	Completed  bool         `json:"completed"`
	JoinedAt   *wireTime    `json:"joined_at"`
	StartedAt  *wireTime    `json:"started_at"`
	FinishedAt *wireTime    `json:"finished_at"`
}

func (w submissionWire) entity() (Submission, error) {
	if w.Quiz == nil {
		return Submission{}, errors.New("missing quiz")
	}
	s := Submission{
		Quiz:       ID(*w.Quiz),
		Completed:  w.Completed,
		JoinedAt:   w.JoinedAt.ptr(),
		StartedAt:  w.StartedAt.ptr(),
		FinishedAt: w.FinishedAt.ptr(),
	}
	if w.User != nil {
		s.User = ID(*w.User)
	}
	if w.Score != nil {
		score := float64(*w.Score)
		s.Score = &score
	}
	return s, nil
}

type dashboardWire struct {
	Created      []quizWire       `json:"created"`
	Participated []submissionWire `json:"participated"`
}

func decode(r io.Reader, entity string, v any) error {
	if err := render.DecodeJSON(r, v); err != nil {
		return &LoadError{Entity: entity, Err: err}
	}
	return nil
}

// DecodeChoice maps a choice payload. Both id and content are required.
func DecodeChoice(r io.Reader) (Choice, error) {
	var w choiceWire
	if err := decode(r, "choice", &w); err != nil {
		return Choice{}, err
	}
	c, err := w.entity()
	if err != nil {
		return Choice{}, &LoadError{Entity: "choice", Err: err}
	}
	return c, nil
}

// DecodeQuestion maps a question payload. The id may be absent, in which case
// the caller knows it from the request.
func DecodeQuestion(r io.Reader) (Question, error) {
	var w questionWire
	if err := decode(r, "question", &w); err != nil {
		return Question{}, err
	}
	q, err := w.entity(false)
	if err != nil {
		return Question{}, &LoadError{Entity: "question", Err: err}
	}
	return q, nil
}

// DecodeQuiz maps a quiz document with its nested questions and choices.
func DecodeQuiz(r io.Reader) (Quiz, error) {
	var w quizWire
	if err := decode(r, "quiz", &w); err != nil {
		return Quiz{}, err
	}
	quiz, err := w.entity()
	if err != nil {
		return Quiz{}, &LoadError{Entity: "quiz", Err: err}
	}
	return quiz, nil
}

func DecodeDashboard(r io.Reader) (Dashboard, error) {
	var w dashboardWire
	if err := decode(r, "dashboard", &w); err != nil {
		return Dashboard{}, err
	}

	var issues error
	d := Dashboard{
		Created:      make([]Quiz, 0, len(w.Created)),
		Participated: make([]Submission, 0, len(w.Participated)),
	}
	for i, qw := range w.Created {
		quiz, err := qw.entity()
		if err != nil {
			issues = multierror.Append(issues, multierror.Prefix(err, fmt.Sprintf("created[%d]:", i)))
			continue
		}
		d.Created = append(d.Created, quiz)
	}
	for i, sw := range w.Participated {
		s, err := sw.entity()
		if err != nil {
			issues = multierror.Append(issues, multierror.Prefix(err, fmt.Sprintf("participated[%d]:", i)))
			continue
		}
		d.Participated = append(d.Participated, s)
	}
	if issues != nil {
		return Dashboard{}, &LoadError{Entity: "dashboard", Err: issues}
	}
	return d, nil
}
