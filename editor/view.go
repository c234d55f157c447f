package editor

import (
	"time"

	"github.com/mbolis/quick-quiz/choices"
	"github.com/mbolis/quick-quiz/model"
)

// QuizView is a read-only copy of the aggregate for the view layer.
type QuizView struct {
	ID           model.ID       `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Duration     int            `json:"duration"`
	DurationText string         `json:"duration_text"`
	StartTime    *time.Time     `json:"start_time,omitempty"`
	HasPassword  bool           `json:"has_password"`
	Creator      model.ID       `json:"creator,omitempty"`
	Questions    []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID            model.ID     `json:"id"`
	Content       string       `json:"content"`
	Type          string       `json:"type,omitempty"`
	CorrectChoice *model.ID    `json:"correct_choice,omitempty"`
	CorrectValid  bool         `json:"correct_choice_valid"`
	Busy          bool         `json:"busy"`
	Choices       []ChoiceView `json:"choices"`
}

type ChoiceView struct {
	Key      string        `json:"key"`
	ID       model.ID      `json:"id,omitempty"`
	Content  string        `json:"content"`
	State    choices.State `json:"state"`
	Modified bool          `json:"modified"`
}

func choiceView(it choices.Item) ChoiceView {
	return ChoiceView{
		Key:      it.Key,
		ID:       it.ID,
		Content:  it.Content,
		State:    it.State,
		Modified: it.Modified(),
	}
}

func (a *Aggregate) Snapshot() QuizView {
	v := QuizView{
		ID:           a.quiz.ID,
		Title:        a.quiz.Title,
		Description:  a.quiz.Description,
		Duration:     a.quiz.Duration,
		DurationText: model.FormatDuration(a.quiz.Duration),
		HasPassword:  a.quiz.Password != nil,
		Creator:      a.quiz.Creator,
		Questions:    make([]QuestionView, len(a.questions)),
	}
	if a.quiz.StartTime != nil {
		start := *a.quiz.StartTime
		v.StartTime = &start
	}
	for i, h := range a.questions {
		v.Questions[i] = a.questionView(h)
	}
	return v
}

func (a *Aggregate) questionView(h questionHeader) QuestionView {
	store := a.stores[h.ID]
	qv := QuestionView{
		ID:      h.ID,
		Content: h.Content,
		Type:    h.Type,
		Busy:    store.Busy(),
		Choices: make([]ChoiceView, 0, store.Len()),
	}
	if h.CorrectChoice != nil {
		id := *h.CorrectChoice
		qv.CorrectChoice = &id
		_, qv.CorrectValid = a.CorrectChoice(h.ID)
	}
	for _, it := range store.Items() {
		qv.Choices = append(qv.Choices, choiceView(it))
	}
	return qv
}
