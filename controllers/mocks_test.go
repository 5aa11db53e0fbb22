package controllers

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"study-sync/studysync/models"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) CreateSpace(ctx context.Context, name string) (models.Space, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.Space), args.Error(1)
}

func (m *mockBackend) ListSpaces(ctx context.Context) ([]models.Space, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Space), args.Error(1)
}

func (m *mockBackend) GetSpace(ctx context.Context, spaceID string) (*models.Space, error) {
	args := m.Called(ctx, spaceID)
	space, _ := args.Get(0).(*models.Space)
	return space, args.Error(1)
}

func (m *mockBackend) DeleteSpace(ctx context.Context, spaceID string) error {
	return m.Called(ctx, spaceID).Error(0)
}

func (m *mockBackend) CreateNote(ctx context.Context, spaceID, title string) (models.Note, error) {
	args := m.Called(ctx, spaceID, title)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *mockBackend) ListNotes(ctx context.Context, spaceID string) ([]models.Note, error) {
	args := m.Called(ctx, spaceID)
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *mockBackend) GetNote(ctx context.Context, noteID string) (*models.Note, error) {
	args := m.Called(ctx, noteID)
	note, _ := args.Get(0).(*models.Note)
	return note, args.Error(1)
}

func (m *mockBackend) SaveNote(ctx context.Context, noteID string, fields models.NoteFields) error {
	return m.Called(ctx, noteID, fields).Error(0)
}

func (m *mockBackend) DeleteNote(ctx context.Context, noteID string) error {
	return m.Called(ctx, noteID).Error(0)
}

type staticIdentity struct {
	identity *models.Identity
}

func (s staticIdentity) Current() (models.Identity, bool) {
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

type fakeSession struct {
	staticIdentity
	signOutErr error
	signedOut  bool
}

func (f *fakeSession) SignOut(ctx context.Context) error {
	f.signedOut = true
	return f.signOutErr
}

type recordingNav struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNav) record(s string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, s)
}

func (n *recordingNav) ToLogin()               { n.record("login") }
func (n *recordingNav) ToDashboard()           { n.record("dashboard") }
func (n *recordingNav) ToSpace(spaceID string) { n.record("space:" + spaceID) }
func (n *recordingNav) ToNote(noteID string)   { n.record("note:" + noteID) }

func (n *recordingNav) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

func answer(yes bool, prompts *[]string) ConfirmFunc {
	return func(prompt string) bool {
		if prompts != nil {
			*prompts = append(*prompts, prompt)
		}
		return yes
	}
}
