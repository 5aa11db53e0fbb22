package testutils

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"study-sync/studysync/models"
	"study-sync/studysync/utils/token"
)

type MockSpaceService struct {
	mock.Mock
}

func (m *MockSpaceService) CreateSpace(ctx context.Context, ownerID, name string) (models.Space, error) {
	args := m.Called(ctx, ownerID, name)
	return args.Get(0).(models.Space), args.Error(1)
}

func (m *MockSpaceService) ListSpaces(ctx context.Context, ownerID string) ([]models.Space, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Space), args.Error(1)
}

func (m *MockSpaceService) GetSpace(ctx context.Context, actorID, spaceID string) (*models.Space, error) {
	args := m.Called(ctx, actorID, spaceID)
	space, _ := args.Get(0).(*models.Space)
	return space, args.Error(1)
}

func (m *MockSpaceService) DeleteSpace(ctx context.Context, actorID, spaceID string) error {
	args := m.Called(ctx, actorID, spaceID)
	return args.Error(0)
}

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) CreateNote(ctx context.Context, spaceID, ownerID, title string) (models.Note, error) {
	args := m.Called(ctx, spaceID, ownerID, title)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) ListNotes(ctx context.Context, actorID, spaceID string) ([]models.Note, error) {
	args := m.Called(ctx, actorID, spaceID)
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockNoteService) GetNote(ctx context.Context, actorID, noteID string) (*models.Note, error) {
	args := m.Called(ctx, actorID, noteID)
	note, _ := args.Get(0).(*models.Note)
	return note, args.Error(1)
}

func (m *MockNoteService) SaveNote(ctx context.Context, actorID, noteID string, fields models.NoteFields) error {
	args := m.Called(ctx, actorID, noteID, fields)
	return args.Error(0)
}

func (m *MockNoteService) DeleteNote(ctx context.Context, actorID, noteID string) error {
	args := m.Called(ctx, actorID, noteID)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password, displayName string) (models.User, error) {
	args := m.Called(ctx, email, password, displayName)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(models.User), args.Error(2)
}

func (m *MockAuthService) IssueToken(user models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*token.JWTClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*token.JWTClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

// PublishedMessage is a message captured by MockProducer.
type PublishedMessage struct {
	EventType string
	Data      []byte
}

// MockProducer records published messages. Err, when set, fails every publish.
type MockProducer struct {
	mu       sync.Mutex
	Messages []PublishedMessage
	Err      error
	Closed   bool
}

func (p *MockProducer) Publish(eventType string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Messages = append(p.Messages, PublishedMessage{EventType: eventType, Data: data})
	return nil
}

func (p *MockProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
}

func (p *MockProducer) Published() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedMessage(nil), p.Messages...)
}
