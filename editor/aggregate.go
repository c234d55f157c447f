package editor

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/mbolis/quick-quiz/choices"
	"github.com/mbolis/quick-quiz/model"
)

type questionHeader struct {
	ID            model.ID
	Content       string
	Type          string
	CorrectChoice *model.ID
}

func headerOf(q model.Question) questionHeader {
	h := questionHeader{ID: q.ID, Content: q.Content, Type: q.Type}
	if q.CorrectChoice != nil {
		id := *q.CorrectChoice
		h.CorrectChoice = &id
	}
	return h
}

// Aggregate is the quiz being edited: its metadata, the ordered question
// headers and one choice store per question. Stores are referenced, never
// copied.
type Aggregate struct {
	quiz      model.Quiz
	questions []questionHeader
	stores    map[model.ID]*choices.Store
}

func NewAggregate(quizID model.ID) *Aggregate {
	return &Aggregate{
		quiz:   model.Quiz{ID: quizID},
		stores: map[model.ID]*choices.Store{},
	}
}

// Load replaces the whole aggregate with quiz. Choices that survive keep their
// slot keys. Nothing changes on error.
func (a *Aggregate) Load(quiz model.Quiz) error {
	questions := make([]questionHeader, 0, len(quiz.Questions))
	stores := make(map[model.ID]*choices.Store, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if q.ID.IsZero() {
			return &model.LoadError{Entity: "quiz", Err: fmt.Errorf("questions[%d]: missing id", i)}
		}
		if _, dup := stores[q.ID]; dup {
			return &model.LoadError{Entity: "quiz", Err: fmt.Errorf("questions[%d]: duplicate id %s", i, q.ID)}
		}
		store := choices.New(q.ID)
		if prev, ok := a.stores[q.ID]; ok {
			store = prev.Clone()
		}
		if err := store.Load(q.Choices); err != nil {
			return err
		}
		questions = append(questions, headerOf(q))
		stores[q.ID] = store
	}

	quiz.Questions = nil
	a.quiz, a.questions, a.stores = quiz, questions, stores
	return nil
}

// putQuestion loads q into its store, adding the question at the end if it is
// new. Nothing changes on error.
func (a *Aggregate) putQuestion(q model.Question) error {
	store, ok := a.stores[q.ID]
	if !ok {
		store = choices.New(q.ID)
	}
	if err := store.Load(q.Choices); err != nil {
		return err
	}
	if !ok {
		a.stores[q.ID] = store
		a.questions = append(a.questions, headerOf(q))
		return nil
	}
	a.setHeader(q)
	return nil
}

func (a *Aggregate) setHeader(q model.Question) {
	if i := a.questionIndex(q.ID); i >= 0 {
		a.questions[i] = headerOf(q)
	}
}

func (a *Aggregate) removeQuestion(id model.ID) {
	if i := a.questionIndex(id); i >= 0 {
		a.questions = append(a.questions[:i:i], a.questions[i+1:]...)
	}
	delete(a.stores, id)
}

func (a *Aggregate) setMeta(quiz model.Quiz) {
	quiz.ID = a.quiz.ID
	quiz.Questions = nil
	a.quiz = quiz
}

func (a *Aggregate) questionIndex(id model.ID) int {
	for i, h := range a.questions {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// Quiz returns the quiz metadata, without questions.
func (a *Aggregate) Quiz() model.Quiz {
	return a.quiz
}

func (a *Aggregate) QuestionCount() int {
	return len(a.questions)
}

func (a *Aggregate) QuestionIDs() []model.ID {
	ids := make([]model.ID, len(a.questions))
	for i, h := range a.questions {
		ids[i] = h.ID
	}
	return ids
}

func (a *Aggregate) Choices(questionID model.ID) (*choices.Store, bool) {
	store, ok := a.stores[questionID]
	return store, ok
}

// ChoiceCount is zero for unknown questions.
func (a *Aggregate) ChoiceCount(questionID model.ID) int {
	if store, ok := a.stores[questionID]; ok {
		return store.Len()
	}
	return 0
}

// CorrectChoice returns the item the question marks as correct. ok is false
// when the question is unknown, has no correct choice, or points at a choice
// that is not in its list.
func (a *Aggregate) CorrectChoice(questionID model.ID) (item choices.Item, ok bool) {
	i := a.questionIndex(questionID)
	if i < 0 || a.questions[i].CorrectChoice == nil {
		return choices.Item{}, false
	}
	want := *a.questions[i].CorrectChoice
	for _, it := range a.stores[questionID].Items() {
		if it.ID == want {
			return it, true
		}
	}
	return choices.Item{}, false
}

// Validate reports everything that keeps the quiz from being usable. All
// issues are returned at once.
func (a *Aggregate) Validate() error {
	var issues error
	if a.quiz.Title == "" {
		issues = multierror.Append(issues, fmt.Errorf("quiz: %w", ErrMissingTitle))
	}
	for i, h := range a.questions {
		issue := func(err error) {
			issues = multierror.Append(issues, fmt.Errorf("question %d (%s): %w", i+1, h.ID, err))
		}
		store := a.stores[h.ID]

		if h.Content == "" {
			issue(ErrMissingContent)
		}
		if store.Len() < 2 {
			issue(ErrTooFewChoices)
		}
		if h.CorrectChoice == nil {
			issue(ErrNoCorrectChoice)
		} else if _, ok := a.CorrectChoice(h.ID); !ok {
			issue(ErrDanglingCorrect)
		}

		unsaved := 0
		for _, it := range store.Items() {
			if it.Modified() {
				unsaved++
			}
		}
		if unsaved > 0 {
			issue(fmt.Errorf("%d %w", unsaved, ErrUnsavedChoices))
		}
	}
	return issues
}

// Issues flattens the result of Validate.
func Issues(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	if err != nil {
		return []error{err}
	}
	return nil
}
