package editor

import (
	"sync"

	"github.com/mbolis/quick-quiz/model"
)

// Registry keeps the open editing sessions of every login session. Editing
// sessions never share stores, even for the same quiz.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]map[model.ID]*Coordinator
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]map[model.ID]*Coordinator{}}
}

// Open returns the editing session for quizID, creating it with api when
// there is none. created reports whether the caller must fetch the quiz.
func (r *Registry) Open(sessionID string, quizID model.ID, api func() API) (c *Coordinator, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quizzes, ok := r.sessions[sessionID]
	if !ok {
		quizzes = map[model.ID]*Coordinator{}
		r.sessions[sessionID] = quizzes
	}
	if c, ok := quizzes[quizID]; ok && !c.Closed() {
		return c, false
	}
	c = New(api(), quizID)
	quizzes[quizID] = c
	return c, true
}

func (r *Registry) Get(sessionID string, quizID model.ID) (*Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[sessionID][quizID]
	if !ok || c.Closed() {
		return nil, false
	}
	return c, true
}

// Close detaches and forgets one editing session. Closing a session that is
// not open does nothing.
func (r *Registry) Close(sessionID string, quizID model.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.sessions[sessionID][quizID]; ok {
		c.Close()
		delete(r.sessions[sessionID], quizID)
	}
}

// CloseAll detaches every editing session of a login session.
func (r *Registry) CloseAll(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.sessions[sessionID] {
		c.Close()
	}
	delete(r.sessions, sessionID)
}
