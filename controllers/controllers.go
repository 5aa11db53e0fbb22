// Package controllers holds the per-view session controllers. Each one owns
// the state of a single view, turns user actions into backend calls and
// exposes a read-only snapshot for rendering.
package controllers

import (
	"context"
	"sync"

	"study-sync/studysync/models"
)

// Backend is the data access used by the controllers. The acting user is
// implied: client.Client sends its token, client.Local reads the session.
type Backend interface {
	CreateSpace(ctx context.Context, name string) (models.Space, error)
	ListSpaces(ctx context.Context) ([]models.Space, error)
	GetSpace(ctx context.Context, spaceID string) (*models.Space, error)
	DeleteSpace(ctx context.Context, spaceID string) error

	CreateNote(ctx context.Context, spaceID, title string) (models.Note, error)
	ListNotes(ctx context.Context, spaceID string) ([]models.Note, error)
	GetNote(ctx context.Context, noteID string) (*models.Note, error)
	SaveNote(ctx context.Context, noteID string, fields models.NoteFields) error
	DeleteNote(ctx context.Context, noteID string) error
}

// IdentitySource is read-only access to the signed-in user.
type IdentitySource interface {
	Current() (models.Identity, bool)
}

type Navigator interface {
	ToLogin()
	ToDashboard()
	ToSpace(spaceID string)
	ToNote(noteID string)
}

// Confirmer gates destructive actions behind an explicit yes.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// store guards a controller's state. Once closed, updates are dropped so
// results arriving after teardown have no effect.
type store[S any] struct {
	mu       sync.Mutex
	state    S
	closed   bool
	onChange func()
}

func (s *store[S]) read(fn func(S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// update applies fn and reports whether the controller is still alive.
func (s *store[S]) update(fn func(*S)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return true
}

func (s *store[S]) alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// OnChange registers a hook called after every state change.
func (s *store[S]) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Close tears the controller down. Requests still in flight complete but
// their results are discarded.
func (s *store[S]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.onChange = nil
}
