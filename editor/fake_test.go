package editor

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/mbolis/quick-quiz/model"
	"github.com/mbolis/quick-quiz/quizapi"
)

// gate holds a fake call until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gate) wait(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("call never reached the API")
	}
}

func (g *gate) open() {
	close(g.release)
}

// fakeAPI is an in-memory Quiz API.
type fakeAPI struct {
	mu        sync.Mutex
	nextID    int
	quiz      model.Quiz
	questions map[model.ID]model.Question
	calls     []string
	failures  map[string]error
	gates     map[string]*gate
}

func newFakeAPI(quiz model.Quiz) *fakeAPI {
	f := &fakeAPI{
		nextID:    100,
		quiz:      quiz,
		questions: map[model.ID]model.Question{},
		failures:  map[string]error{},
		gates:     map[string]*gate{},
	}
	for _, q := range quiz.Questions {
		f.questions[q.ID] = q
	}
	f.quiz.Questions = nil
	return f
}

func (f *fakeAPI) hold(op string) *gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	f.gates[op] = g
	return g
}

func (f *fakeAPI) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = err
}

func (f *fakeAPI) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeAPI) records(questionID model.ID) []model.Choice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Choice(nil), f.questions[questionID].Choices...)
}

func (f *fakeAPI) enter(op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	g := f.gates[op]
	delete(f.gates, op)
	err := f.failures[op]
	f.mu.Unlock()

	if g != nil {
		close(g.entered)
		<-g.release
	}
	return err
}

func (f *fakeAPI) newID() model.ID {
	f.nextID++
	return model.ID(strconv.Itoa(f.nextID))
}

// GetQuiz answers with the quiz as it stood when the call was made, even if
// the call is held.
func (f *fakeAPI) GetQuiz(ctx context.Context, quizID model.ID) (model.Quiz, error) {
	f.mu.Lock()
	quiz := f.quiz
	for _, id := range sortedIDs(f.questions) {
		q := f.questions[id]
		q.Choices = append([]model.Choice(nil), q.Choices...)
		quiz.Questions = append(quiz.Questions, q)
	}
	f.mu.Unlock()

	if err := f.enter("get_quiz"); err != nil {
		return model.Quiz{}, err
	}
	if quizID != quiz.ID {
		return model.Quiz{}, quizapi.ErrNotFound
	}
	return quiz, nil
}

func (f *fakeAPI) UpdateQuiz(ctx context.Context, quizID model.ID, fields model.QuizFields) (model.Quiz, error) {
	if err := f.enter("update_quiz"); err != nil {
		return model.Quiz{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if fields.Title != nil {
		f.quiz.Title = *fields.Title
	}
	if fields.Description != nil {
		f.quiz.Description = *fields.Description
	}
	if fields.Duration != nil {
		f.quiz.Duration = *fields.Duration
	}
	if fields.Password != nil {
		f.quiz.Password = fields.Password
	}
	if fields.StartTime != nil {
		f.quiz.StartTime = fields.StartTime
	}
	return f.quiz, nil
}

func (f *fakeAPI) DeleteQuiz(ctx context.Context, quizID model.ID) error {
	return f.enter("delete_quiz")
}

func (f *fakeAPI) GetQuestion(ctx context.Context, quizID, questionID model.ID) (model.Question, error) {
	f.mu.Lock()
	q, ok := f.questions[questionID]
	q.Choices = append([]model.Choice(nil), q.Choices...)
	f.mu.Unlock()

	if err := f.enter("get_question"); err != nil {
		return model.Question{}, err
	}
	if !ok {
		return model.Question{}, quizapi.ErrNotFound
	}
	return q, nil
}

func (f *fakeAPI) CreateQuestion(ctx context.Context, quizID model.ID, fields model.QuestionFields) (model.Question, error) {
	if err := f.enter("create_question"); err != nil {
		return model.Question{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q := model.Question{ID: f.newID(), Choices: []model.Choice{}}
	if fields.Content != nil {
		q.Content = *fields.Content
	}
	if fields.Type != nil {
		q.Type = *fields.Type
	}
	f.questions[q.ID] = q
	return q, nil
}

func (f *fakeAPI) UpdateQuestion(ctx context.Context, quizID, questionID model.ID, fields model.QuestionFields) (model.Question, error) {
	if err := f.enter("update_question"); err != nil {
		return model.Question{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[questionID]
	if !ok {
		return model.Question{}, &quizapi.RemoteWriteError{Op: "update_question", Status: 404, Err: quizapi.ErrNotFound}
	}
	if fields.Content != nil {
		q.Content = *fields.Content
	}
	if fields.Type != nil {
		q.Type = *fields.Type
	}
	if fields.CorrectChoice != nil {
		id := *fields.CorrectChoice
		q.CorrectChoice = &id
	}
	f.questions[questionID] = q
	return q, nil
}

func (f *fakeAPI) DeleteQuestion(ctx context.Context, quizID, questionID model.ID) error {
	if err := f.enter("delete_question"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.questions, questionID)
	return nil
}

func (f *fakeAPI) CreateChoice(ctx context.Context, questionID model.ID, content string) (model.Choice, error) {
	if err := f.enter("create_choice"); err != nil {
		return model.Choice{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.questions[questionID]
	c := model.Choice{ID: f.newID(), Content: content}
	q.Choices = append(q.Choices, c)
	f.questions[questionID] = q
	return c, nil
}

func (f *fakeAPI) UpdateChoice(ctx context.Context, questionID, choiceID model.ID, content string) error {
	if err := f.enter("update_choice"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.questions[questionID]
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			q.Choices[i].Content = content
		}
	}
	return nil
}

func (f *fakeAPI) DeleteChoice(ctx context.Context, questionID, choiceID model.ID) error {
	if err := f.enter("delete_choice"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.questions[questionID]
	kept := q.Choices[:0:0]
	for _, c := range q.Choices {
		if c.ID != choiceID {
			kept = append(kept, c)
		}
	}
	q.Choices = kept
	f.questions[questionID] = q
	return nil
}

func sortedIDs(m map[model.ID]model.Question) []model.ID {
	ids := make([]model.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}
