// Package choices holds the ordered choice list of a single question.
//
// A Store is not safe for concurrent use; the editing session that owns it
// serializes access.
package choices

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/mbolis/quick-quiz/model"
	"github.com/mbolis/quick-quiz/reorder"
)

var (
	ErrIndexOutOfRange    = reorder.ErrIndexOutOfRange
	ErrInvalidPermutation = errors.New("invalid permutation")
	ErrUnknownKey         = errors.New("unknown choice key")
	ErrAlreadyBound       = errors.New("choice already has an id")
)

// Item is one slot of the list. Key identifies the slot for the lifetime of
// the editing session, independently of its position, content or ID.
type Item struct {
	Key     string   `json:"key"`
	ID      model.ID `json:"id,omitempty"`
	Content string   `json:"content"`
	Saved   string   `json:"-"`
	State   State    `json:"state"`
}

// Modified reports whether the content differs from what the server last
// confirmed. Local-only items are always modified.
func (it Item) Modified() bool {
	return it.ID.IsZero() || it.Content != it.Saved
}

func (it Item) Choice() model.Choice {
	return model.Choice{ID: it.ID, Content: it.Content}
}

type Store struct {
	question model.ID
	items    []Item
	newKey   func() string
}

func New(question model.ID) *Store {
	return &Store{question: question, newKey: newKey}
}

func newKey() string {
	return uuid.Must(uuid.NewV4()).String()
}

func (s *Store) Question() model.ID {
	return s.question
}

func (s *Store) Len() int {
	return len(s.items)
}

// Items returns a copy of the list in order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) At(index int) (Item, error) {
	if err := s.checkIndex(index); err != nil {
		return Item{}, err
	}
	return s.items[index], nil
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return &Store{question: s.question, items: s.Items(), newKey: s.newKey}
}

// Load replaces the whole list with persisted choices, typically after a fetch.
// Slots whose ID is still present keep their key.
func (s *Store) Load(choices []model.Choice) error {
	seen := make(map[model.ID]int, len(choices))
	for i, c := range choices {
		if c.ID.IsZero() {
			return &model.LoadError{Entity: "choice", Err: fmt.Errorf("choices[%d]: missing id", i)}
		}
		if j, dup := seen[c.ID]; dup {
			return &model.LoadError{Entity: "choice", Err: fmt.Errorf("choices[%d]: duplicate id %s (also at %d)", i, c.ID, j)}
		}
		seen[c.ID] = i
	}

	keys := make(map[model.ID]string, len(s.items))
	for _, it := range s.items {
		if !it.ID.IsZero() {
			keys[it.ID] = it.Key
		}
	}

	items := make([]Item, len(choices))
	for i, c := range choices {
		key, ok := keys[c.ID]
		if !ok {
			key = s.newKey()
		}
		items[i] = Item{Key: key, ID: c.ID, Content: c.Content, Saved: c.Content, State: Persisted}
	}
	s.items = items
	return nil
}

// Append adds a local-only choice at the end.
func (s *Store) Append(content string) Item {
	it := Item{Key: s.newKey(), Content: content, State: LocalOnly}
	s.items = append(s.items, it)
	return it
}

func (s *Store) UpdateContent(index int, content string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items[index].Content = content
	return nil
}

// RemoveAt drops the item at index from local state only.
func (s *Store) RemoveAt(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items = append(s.items[:index:index], s.items[index+1:]...)
	return nil
}

// Reorder replaces the list with newOrder, which must contain exactly the
// current items, unchanged, in any order.
func (s *Store) Reorder(newOrder []Item) error {
	if len(newOrder) != len(s.items) {
		return fmt.Errorf("reorder %d items into %d: %w", len(s.items), len(newOrder), ErrInvalidPermutation)
	}
	current := make(map[string]Item, len(s.items))
	for _, it := range s.items {
		current[it.Key] = it
	}
	for i, it := range newOrder {
		prev, ok := current[it.Key]
		if !ok {
			return fmt.Errorf("reorder: item %d (%q) is missing or duplicated: %w", i, it.Key, ErrInvalidPermutation)
		}
		if prev != it {
			return fmt.Errorf("reorder: item %d (%q) was altered: %w", i, it.Key, ErrInvalidPermutation)
		}
		delete(current, it.Key)
	}

	items := make([]Item, len(newOrder))
	copy(items, newOrder)
	s.items = items
	return nil
}

// Index returns the position of the slot with key, or -1.
func (s *Store) Index(key string) int {
	for i, it := range s.items {
		if it.Key == key {
			return i
		}
	}
	return -1
}

func (s *Store) Get(key string) (Item, bool) {
	i := s.Index(key)
	if i < 0 {
		return Item{}, false
	}
	return s.items[i], true
}

// Contains reports whether a persisted choice with id is present.
func (s *Store) Contains(id model.ID) bool {
	if id.IsZero() {
		return false
	}
	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) SetState(key string, state State) error {
	i := s.Index(key)
	if i < 0 {
		return ErrUnknownKey
	}
	s.items[i].State = state
	return nil
}

// Bind records the server-assigned id on a local-only slot. An id is assigned
// at most once, and must not already belong to another slot.
func (s *Store) Bind(key string, id model.ID, saved string) error {
	i := s.Index(key)
	if i < 0 {
		return ErrUnknownKey
	}
	if !s.items[i].ID.IsZero() {
		return fmt.Errorf("bind %s to %q: %w", id, key, ErrAlreadyBound)
	}
	if id.IsZero() {
		return &model.LoadError{Entity: "choice", Err: fmt.Errorf("bind %q: missing id", key)}
	}
	if s.Contains(id) {
		return &model.LoadError{Entity: "choice", Err: fmt.Errorf("bind %q: duplicate id %s", key, id)}
	}
	s.items[i].ID = id
	s.items[i].Saved = saved
	s.items[i].State = Persisted
	return nil
}

// MarkSaved records content the server confirmed for a persisted slot.
func (s *Store) MarkSaved(key string, saved string) error {
	i := s.Index(key)
	if i < 0 {
		return ErrUnknownKey
	}
	s.items[i].Saved = saved
	s.items[i].State = Persisted
	return nil
}

func (s *Store) Remove(key string) error {
	i := s.Index(key)
	if i < 0 {
		return ErrUnknownKey
	}
	return s.RemoveAt(i)
}

// InFlight reports whether any item in [lo, hi] has an outstanding remote
// write. Bounds are clamped to the list.
func (s *Store) InFlight(lo, hi int) bool {
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s.items) {
		hi = len(s.items) - 1
	}
	for i := lo; i <= hi; i++ {
		if s.items[i].State.InFlight() {
			return true
		}
	}
	return false
}

// Busy reports whether any item has an outstanding remote write.
func (s *Store) Busy() bool {
	return s.InFlight(0, len(s.items)-1)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("choice %d of %d: %w", index, len(s.items), ErrIndexOutOfRange)
	}
	return nil
}
