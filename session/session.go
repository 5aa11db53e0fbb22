// Package session holds the signed-in identity of a client process. A
// Session is created once at startup and handed to every controller; only
// the session itself changes the identity.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"study-sync/studysync/models"
)

var ErrClosed = errors.New("session closed")

// Provider performs the identity operations against the backend.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (models.Identity, error)
	SignIn(ctx context.Context, email, password string) (models.Identity, error)
	SignOut(ctx context.Context) error
}

type Session struct {
	provider Provider

	mu       sync.RWMutex
	identity *models.Identity
	loading  bool
	closed   bool
	nextSub  int
	subs     map[int]func(*models.Identity)
}

// New returns a session in the loading state. Call Init once the initial
// identity (or its absence) is known.
func New(provider Provider) *Session {
	return &Session{
		provider: provider,
		loading:  true,
		subs:     make(map[int]func(*models.Identity)),
	}
}

func (s *Session) Init(identity *models.Identity) {
	s.set(identity)
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) Current() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// OnIdentityChange registers fn for every later identity change and returns
// a function that removes it.
func (s *Session) OnIdentityChange(fn func(*models.Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) SignUp(ctx context.Context, email, password, displayName string) (models.Identity, error) {
	if s.isClosed() {
		return models.Identity{}, ErrClosed
	}
	identity, err := s.provider.SignUp(ctx, email, password, displayName)
	if err != nil {
		return models.Identity{}, err
	}
	s.set(&identity)
	return identity, nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	if s.isClosed() {
		return models.Identity{}, ErrClosed
	}
	identity, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return models.Identity{}, err
	}
	s.set(&identity)
	return identity, nil
}

// SignOut clears the identity even when the provider call fails; the local
// credential is dropped either way.
func (s *Session) SignOut(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	err := s.provider.SignOut(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("sign out request failed")
	}
	s.set(nil)
	return err
}

// Close drops the identity and all subscribers. The session is unusable
// afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.identity = nil
	s.loading = false
	s.subs = make(map[int]func(*models.Identity))
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) set(identity *models.Identity) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if identity != nil {
		copied := *identity
		identity = &copied
	}
	s.identity = identity
	s.loading = false

	subs := make([]func(*models.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		var snapshot *models.Identity
		if identity != nil {
			copied := *identity
			snapshot = &copied
		}
		fn(snapshot)
	}
}
