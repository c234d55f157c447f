package model

import "time"

// ID is a server-assigned identifier. The zero value means the entity has not
// been persisted yet.
type ID string

func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

type Quiz struct {
	ID          ID         `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"` // seconds
	StartTime   *time.Time `json:"start_time,omitempty"`
	Password    *string    `json:"password,omitempty"`
	Creator     ID         `json:"creator,omitempty"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID            ID       `json:"id,omitempty"`
	Content       string   `json:"content"`
	Type          string   `json:"type,omitempty"`
	CorrectChoice *ID      `json:"correct_choice,omitempty"`
	Choices       []Choice `json:"choices"`
}

type Choice struct {
	ID      ID     `json:"id,omitempty"`
	Content string `json:"content"`
}

// QuizFields holds the editable metadata of a quiz. Nil fields are left
// untouched by an update.
type QuizFields struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Duration    *int       `json:"duration,omitempty"` // seconds
	StartTime   *time.Time `json:"start_time,omitempty"`
	Password    *string    `json:"password,omitempty"`
}

// QuestionFields holds the editable fields of a question. Nil fields are left
// untouched by an update.
type QuestionFields struct {
	Content       *string `json:"content,omitempty"`
	Type          *string `json:"type,omitempty"`
	CorrectChoice *ID     `json:"correct_choice,omitempty"`
}

type Submission struct {
	User       ID         `json:"user"`
	Quiz       ID         `json:"quiz"`
	Score      *float64   `json:"score,omitempty"`
	Completed  bool       `json:"completed"`
	JoinedAt   *time.Time `json:"joined_at,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type Dashboard struct {
	Created      []Quiz       `json:"created"`
	Participated []Submission `json:"participated"`
}
