package client

import (
	"context"

	"study-sync/studysync/models"
	"study-sync/studysync/services"
)

// IdentitySource reports who is signed in. *session.Session satisfies it.
type IdentitySource interface {
	Current() (models.Identity, bool)
}

// Local runs the data operations in-process against the services, acting as
// whoever the identity source reports.
type Local struct {
	spaces   services.SpaceServiceInterface
	notes    services.NoteServiceInterface
	identity IdentitySource
}

func NewLocal(spaces services.SpaceServiceInterface, notes services.NoteServiceInterface, identity IdentitySource) *Local {
	return &Local{spaces: spaces, notes: notes, identity: identity}
}

func (l *Local) actor() string {
	identity, ok := l.identity.Current()
	if !ok {
		return ""
	}
	return identity.ID
}

func (l *Local) CreateSpace(ctx context.Context, name string) (models.Space, error) {
	return l.spaces.CreateSpace(ctx, l.actor(), name)
}

func (l *Local) ListSpaces(ctx context.Context) ([]models.Space, error) {
	return l.spaces.ListSpaces(ctx, l.actor())
}

func (l *Local) GetSpace(ctx context.Context, spaceID string) (*models.Space, error) {
	return l.spaces.GetSpace(ctx, l.actor(), spaceID)
}

func (l *Local) DeleteSpace(ctx context.Context, spaceID string) error {
	return l.spaces.DeleteSpace(ctx, l.actor(), spaceID)
}

func (l *Local) CreateNote(ctx context.Context, spaceID, title string) (models.Note, error) {
	return l.notes.CreateNote(ctx, spaceID, l.actor(), title)
}

func (l *Local) ListNotes(ctx context.Context, spaceID string) ([]models.Note, error) {
	return l.notes.ListNotes(ctx, l.actor(), spaceID)
}

func (l *Local) GetNote(ctx context.Context, noteID string) (*models.Note, error) {
	return l.notes.GetNote(ctx, l.actor(), noteID)
}

func (l *Local) SaveNote(ctx context.Context, noteID string, fields models.NoteFields) error {
	return l.notes.SaveNote(ctx, l.actor(), noteID, fields)
}

func (l *Local) DeleteNote(ctx context.Context, noteID string) error {
	return l.notes.DeleteNote(ctx, l.actor(), noteID)
}

// LocalProvider signs users in through the auth service directly.
type LocalProvider struct {
	auth services.AuthServiceInterface
}

func NewLocalProvider(auth services.AuthServiceInterface) *LocalProvider {
	return &LocalProvider{auth: auth}
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password, displayName string) (models.Identity, error) {
	user, err := p.auth.SignUp(ctx, email, password, displayName)
	if err != nil {
		return models.Identity{}, err
	}
	return user.Identity(), nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	_, user, err := p.auth.Login(ctx, email, password)
	if err != nil {
		return models.Identity{}, err
	}
	return user.Identity(), nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	return nil
}
