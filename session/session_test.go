package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"study-sync/studysync/models"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) SignUp(ctx context.Context, email, password, displayName string) (models.Identity, error) {
	args := m.Called(email, password, displayName)
	return args.Get(0).(models.Identity), args.Error(1)
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	args := m.Called(email, password)
	return args.Get(0).(models.Identity), args.Error(1)
}

func (m *mockProvider) SignOut(ctx context.Context) error {
	return m.Called().Error(0)
}

var ada = models.Identity{ID: "u1", Email: "ada@example.com", DisplayName: "Ada"}

func TestSession_InitEndsLoading(t *testing.T) {
	s := New(&mockProvider{})
	assert.True(t, s.Loading())
	_, ok := s.Current()
	assert.False(t, ok)

	s.Init(nil)
	assert.False(t, s.Loading())
	_, ok = s.Current()
	assert.False(t, ok)

	s.Init(&ada)
	current, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, ada, current)
}

func TestSession_SignInNotifiesSubscribers(t *testing.T) {
	provider := &mockProvider{}
	provider.On("SignIn", "ada@example.com", "secret1").Return(ada, nil)
	provider.On("SignOut").Return(nil)
	s := New(provider)

	var seen []*models.Identity
	unsubscribe := s.OnIdentityChange(func(id *models.Identity) { seen = append(seen, id) })

	identity, err := s.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, ada, identity)

	require.NoError(t, s.SignOut(context.Background()))
	_, ok := s.Current()
	assert.False(t, ok)

	require.Len(t, seen, 2)
	assert.Equal(t, ada, *seen[0])
	assert.Nil(t, seen[1])

	unsubscribe()
	unsubscribe()
	s.Init(&ada)
	assert.Len(t, seen, 2)
}

func TestSession_FailedSignInKeepsIdentity(t *testing.T) {
	provider := &mockProvider{}
	provider.On("SignIn", "ada@example.com", "wrong").Return(models.Identity{}, errors.New("invalid credentials"))
	s := New(provider)
	s.Init(nil)

	_, err := s.SignIn(context.Background(), "ada@example.com", "wrong")
	assert.Error(t, err)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSession_SignOutClearsEvenOnError(t *testing.T) {
	provider := &mockProvider{}
	provider.On("SignOut").Return(errors.New("offline"))
	s := New(provider)
	s.Init(&ada)

	assert.Error(t, s.SignOut(context.Background()))
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSession_Close(t *testing.T) {
	provider := &mockProvider{}
	s := New(provider)
	s.Init(&ada)

	called := false
	s.OnIdentityChange(func(*models.Identity) { called = true })
	s.Close()

	_, ok := s.Current()
	assert.False(t, ok)
	_, err := s.SignIn(context.Background(), "ada@example.com", "secret1")
	assert.ErrorIs(t, err, ErrClosed)
	s.Init(&ada)
	assert.False(t, called)
	provider.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
}

func TestSession_SignUp(t *testing.T) {
	provider := &mockProvider{}
	provider.On("SignUp", "ada@example.com", "secret1", "Ada").Return(ada, nil)
	s := New(provider)

	identity, err := s.SignUp(context.Background(), "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, ada, identity)
	current, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "Ada", current.DisplayName)
}
