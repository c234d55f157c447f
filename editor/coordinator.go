// Package editor coordinates one quiz editing session: it applies local edits
// to the quiz aggregate and pushes them to the Quiz API.
//
// Remote calls run on the caller's goroutine without holding the session
// lock. Completions are applied by slot key, so they may arrive in any
// order. An entity with an outstanding write rejects further writes with
// ErrBusy, and a fetch whose targets changed while it was on the wire is
// discarded with ErrBusy.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/mbolis/quick-quiz/choices"
	"github.com/mbolis/quick-quiz/log"
	"github.com/mbolis/quick-quiz/model"
	"github.com/mbolis/quick-quiz/reorder"
)

type Coordinator struct {
	api    API
	quizID model.ID
	log    *log.Entry

	mu        sync.Mutex
	agg       *Aggregate
	closed    bool
	quizWrite bool
	qWrites   map[model.ID]bool

	// rev counts local mutations. changed holds the rev of the last
	// mutation of each question, loadedAt the rev of the last full load.
	rev      uint64
	changed  map[model.ID]uint64
	loadedAt uint64

	loaded   chan struct{}
	loadOnce sync.Once
}

func New(api API, quizID model.ID) *Coordinator {
	return &Coordinator{
		api:     api,
		quizID:  quizID,
		log:     log.WithFields(log.Fields{"quiz": quizID}),
		agg:     NewAggregate(quizID),
		qWrites: map[model.ID]bool{},
		changed: map[model.ID]uint64{},
		loaded:  make(chan struct{}),
	}
}

func (c *Coordinator) QuizID() model.ID {
	return c.quizID
}

// Close detaches the session. Completions arriving later are dropped.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.log.Debug("editor.close")
	}
	c.closed = true
	c.release()
}

func (c *Coordinator) release() {
	c.loadOnce.Do(func() { close(c.loaded) })
}

// Ready waits until the first FetchQuiz of the session has succeeded. It
// returns ErrDetached if the session was closed instead.
func (c *Coordinator) Ready(ctx context.Context) error {
	select {
	case <-c.loaded:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrDetached
	}
	return nil
}

// touch records a local mutation of questionID.
func (c *Coordinator) touch(questionID model.ID) {
	c.rev++
	c.changed[questionID] = c.rev
}

func (c *Coordinator) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Coordinator) Snapshot() (QuizView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return QuizView{}, ErrDetached
	}
	return c.agg.Snapshot(), nil
}

func (c *Coordinator) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrDetached
	}
	return c.agg.Validate()
}

func (c *Coordinator) busy() bool {
	if c.quizWrite {
		return true
	}
	for _, inFlight := range c.qWrites {
		if inFlight {
			return true
		}
	}
	for _, store := range c.agg.stores {
		if store.Busy() {
			return true
		}
	}
	return false
}

// FetchQuiz replaces the aggregate with the server's copy of the quiz.
func (c *Coordinator) FetchQuiz(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDetached
	}
	if c.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	since := c.rev
	c.mu.Unlock()

	c.log.Debug("editor.fetch_quiz")
	quiz, err := c.api.GetQuiz(ctx, c.quizID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrDetached
	}
	if err != nil {
		c.log.WithError(err).Warn("editor.fetch_quiz")
		return err
	}
	if c.busy() || c.rev != since {
		c.log.Debug("editor.fetch_quiz: stale response dropped")
		return ErrBusy
	}
	if err := c.agg.Load(quiz); err != nil {
		return err
	}
	c.rev++
	c.loadedAt = c.rev
	c.release()
	return nil
}

// FetchQuestion reloads one question and its choices. The question is added
// to the aggregate if it was not known yet.
func (c *Coordinator) FetchQuestion(ctx context.Context, questionID model.ID) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDetached
	}
	if c.questionBusy(questionID) {
		c.mu.Unlock()
		return ErrBusy
	}
	since := c.rev
	c.mu.Unlock()

	logger := c.log.WithField("question", questionID)
	logger.Debug("editor.fetch_question")
	q, err := c.api.GetQuestion(ctx, c.quizID, questionID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrDetached
	}
	if err != nil {
		logger.WithError(err).Warn("editor.fetch_question")
		return err
	}
	if c.questionBusy(questionID) || c.changed[questionID] > since || c.loadedAt > since {
		logger.Debug("editor.fetch_question: stale response dropped")
		return ErrBusy
	}
	q.ID = questionID
	if err := c.agg.putQuestion(q); err != nil {
		return err
	}
	c.touch(questionID)
	return nil
}

func (c *Coordinator) questionBusy(questionID model.ID) bool {
	if c.qWrites[questionID] {
		return true
	}
	store, ok := c.agg.stores[questionID]
	return ok && store.Busy()
}

func (c *Coordinator) store(questionID model.ID) (*choices.Store, error) {
	if c.closed {
		return nil, ErrDetached
	}
	store, ok := c.agg.stores[questionID]
	if !ok {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrUnknownQuestion)
	}
	return store, nil
}

func (c *Coordinator) item(questionID model.ID, key string) (*choices.Store, choices.Item, error) {
	store, err := c.store(questionID)
	if err != nil {
		return nil, choices.Item{}, err
	}
	it, ok := store.Get(key)
	if !ok {
		return nil, choices.Item{}, fmt.Errorf("choice %q: %w", key, ErrUnknownChoice)
	}
	return store, it, nil
}

// completion reacquires the store after a remote call. The slot must still
// be where the call left it.
func (c *Coordinator) completion(store *choices.Store, key string) error {
	if c.closed || c.agg.stores[store.Question()] != store || store.Index(key) < 0 {
		return ErrDetached
	}
	return nil
}

// AppendChoice adds a local-only choice at the end of the question's list.
func (c *Coordinator) AppendChoice(questionID model.ID, content string) (choices.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	store, err := c.store(questionID)
	if err != nil {
		return choices.Item{}, err
	}
	c.touch(questionID)
	return store.Append(content), nil
}

// UpdateChoice edits content locally. It is allowed while the choice is being
// saved; the save in flight does not overwrite it.
func (c *Coordinator) UpdateChoice(questionID model.ID, key, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	store, _, err := c.item(questionID, key)
	if err != nil {
		return err
	}
	c.touch(questionID)
	return store.UpdateContent(store.Index(key), content)
}

// MoveChoice moves the choice at from to position to. The move is rejected
// while any choice in between has a write in flight.
func (c *Coordinator) MoveChoice(questionID model.ID, from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	store, err := c.store(questionID)
	if err != nil {
		return err
	}
	moved, err := reorder.Move(store.Items(), from, to)
	if err != nil {
		return err
	}
	if store.InFlight(reorder.Affected(from, to)) {
		return ErrBusy
	}
	if err := store.Reorder(moved); err != nil {
		return err
	}
	c.touch(questionID)
	return nil
}

// SaveChoice creates a local-only choice or updates a persisted one with its
// current content.
func (c *Coordinator) SaveChoice(ctx context.Context, questionID model.ID, key string) error {
	c.mu.Lock()
	store, it, err := c.item(questionID, key)
	if err == nil && it.State.InFlight() {
		err = ErrBusy
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}
	store.SetState(key, choices.Saving)
	c.touch(questionID)
	c.mu.Unlock()

	logger := c.log.WithFields(log.Fields{"question": questionID, "choice": key})
	if it.ID.IsZero() {
		logger.Debug("editor.create_choice")
		choice, err := c.api.CreateChoice(ctx, questionID, it.Content)

		c.mu.Lock()
		defer c.mu.Unlock()
		if detached := c.completion(store, key); detached != nil {
			return detached
		}
		c.touch(questionID)
		if err == nil {
			err = store.Bind(key, choice.ID, it.Content)
		}
		if err != nil {
			logger.WithError(err).Warn("editor.create_choice")
			store.SetState(key, choices.LocalOnly)
			return err
		}
		return nil
	}

	logger.WithField("id", it.ID).Debug("editor.update_choice")
	err = c.api.UpdateChoice(ctx, questionID, it.ID, it.Content)

	c.mu.Lock()
	defer c.mu.Unlock()
	if detached := c.completion(store, key); detached != nil {
		return detached
	}
	c.touch(questionID)
	if err != nil {
		logger.WithError(err).Warn("editor.update_choice")
		store.SetState(key, choices.Persisted)
		return err
	}
	return store.MarkSaved(key, it.Content)
}

// DeleteChoice removes a choice. Local-only choices go away at once; persisted
// ones are removed when the server confirms.
func (c *Coordinator) DeleteChoice(ctx context.Context, questionID model.ID, key string) error {
	c.mu.Lock()
	store, it, err := c.item(questionID, key)
	if err == nil && it.State.InFlight() {
		err = ErrBusy
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if it.ID.IsZero() {
		defer c.mu.Unlock()
		c.touch(questionID)
		return store.Remove(key)
	}
	store.SetState(key, choices.Deleting)
	c.touch(questionID)
	c.mu.Unlock()

	logger := c.log.WithFields(log.Fields{"question": questionID, "choice": key, "id": it.ID})
	logger.Debug("editor.delete_choice")
	err = c.api.DeleteChoice(ctx, questionID, it.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if detached := c.completion(store, key); detached != nil {
		return detached
	}
	c.touch(questionID)
	if err != nil {
		logger.WithError(err).Warn("editor.delete_choice")
		store.SetState(key, choices.Persisted)
		return err
	}
	return store.Remove(key)
}

// AddQuestion creates a question on the server and appends it to the quiz.
func (c *Coordinator) AddQuestion(ctx context.Context, fields model.QuestionFields) (model.ID, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrDetached
	}
	c.mu.Unlock()

	c.log.Debug("editor.create_question")
	q, err := c.api.CreateQuestion(ctx, c.quizID, fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrDetached
	}
	if err != nil {
		c.log.WithError(err).Warn("editor.create_question")
		return "", err
	}
	if _, exists := c.agg.stores[q.ID]; exists {
		return "", &model.LoadError{Entity: "question", Err: fmt.Errorf("duplicate id %s", q.ID)}
	}
	if err := c.agg.putQuestion(q); err != nil {
		return "", err
	}
	c.touch(q.ID)
	return q.ID, nil
}

// UpdateQuestion changes the content, type or correct choice of a question.
// The correct choice must be a persisted choice of the same question.
func (c *Coordinator) UpdateQuestion(ctx context.Context, questionID model.ID, fields model.QuestionFields) error {
	c.mu.Lock()
	store, err := c.store(questionID)
	if err == nil && c.qWrites[questionID] {
		err = ErrBusy
	}
	if err == nil && fields.CorrectChoice != nil && !store.Contains(*fields.CorrectChoice) {
		err = fmt.Errorf("correct choice %s: %w", *fields.CorrectChoice, ErrUnknownChoice)
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.qWrites[questionID] = true
	c.mu.Unlock()

	logger := c.log.WithField("question", questionID)
	logger.Debug("editor.update_question")
	q, err := c.api.UpdateQuestion(ctx, c.quizID, questionID, fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.qWrites, questionID)
	if c.closed || c.agg.stores[questionID] != store {
		return ErrDetached
	}
	if err != nil {
		logger.WithError(err).Warn("editor.update_question")
		return err
	}
	q.ID = questionID
	c.agg.setHeader(q)
	c.touch(questionID)
	return nil
}

// DeleteQuestion removes a question once none of its choices has a write in
// flight.
func (c *Coordinator) DeleteQuestion(ctx context.Context, questionID model.ID) error {
	c.mu.Lock()
	store, err := c.store(questionID)
	if err == nil && c.questionBusy(questionID) {
		err = ErrBusy
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.qWrites[questionID] = true
	c.mu.Unlock()

	logger := c.log.WithField("question", questionID)
	logger.Debug("editor.delete_question")
	err = c.api.DeleteQuestion(ctx, c.quizID, questionID)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.qWrites, questionID)
	if c.closed || c.agg.stores[questionID] != store {
		return ErrDetached
	}
	if err != nil {
		logger.WithError(err).Warn("editor.delete_question")
		return err
	}
	c.agg.removeQuestion(questionID)
	c.touch(questionID)
	return nil
}

// UpdateQuiz patches the quiz metadata and adopts what the server returns.
func (c *Coordinator) UpdateQuiz(ctx context.Context, fields model.QuizFields) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDetached
	}
	if c.quizWrite {
		c.mu.Unlock()
		return ErrBusy
	}
	c.quizWrite = true
	c.mu.Unlock()

	c.log.Debug("editor.update_quiz")
	quiz, err := c.api.UpdateQuiz(ctx, c.quizID, fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.quizWrite = false
	if c.closed {
		return ErrDetached
	}
	if err != nil {
		c.log.WithError(err).Warn("editor.update_quiz")
		return err
	}
	c.agg.setMeta(quiz)
	c.rev++
	return nil
}

// DeleteQuiz deletes the quiz and detaches the session.
func (c *Coordinator) DeleteQuiz(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDetached
	}
	if c.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.quizWrite = true
	c.mu.Unlock()

	c.log.Debug("editor.delete_quiz")
	err := c.api.DeleteQuiz(ctx, c.quizID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.quizWrite = false
	if c.closed {
		return ErrDetached
	}
	if err != nil {
		c.log.WithError(err).Warn("editor.delete_quiz")
		return err
	}
	c.closed = true
	return nil
}
