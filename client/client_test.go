package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-sync/studysync/models"
	"study-sync/studysync/routes"
	"study-sync/studysync/services"
	"study-sync/studysync/testutils"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := testutils.SetupSQLiteDB(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.RegisterRoutes(router, db, routes.Services{
		Auth:   services.NewAuthService(services.NewUserService(db), "test-secret", 1),
		Spaces: services.NewSpaceService(db),
		Notes:  services.NewNoteService(db),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func strPtr(s string) *string { return &s }

func TestClient_SpaceAndNoteLifecycle(t *testing.T) {
	server := newTestServer(t)
	c := NewClient(server.URL)
	ctx := context.Background()

	identity, err := c.SignUp(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.NotEmpty(t, c.AuthToken())

	space, err := c.CreateSpace(ctx, "Algebra")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, space.UserID.String())

	spaces, err := c.ListSpaces(ctx)
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, space.ID, spaces[0].ID)

	note, err := c.CreateNote(ctx, space.ID.String(), "Chapter 1")
	require.NoError(t, err)
	assert.Equal(t, "", note.Content)

	require.NoError(t, c.SaveNote(ctx, note.ID.String(), models.NoteFields{
		Title:   strPtr("Chapter 1"),
		Content: strPtr("## intro"),
		SpaceID: strPtr(space.ID.String()),
		UserID:  strPtr(identity.ID),
	}))

	got, err := c.GetNote(ctx, note.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "## intro", got.Content)
	assert.True(t, got.UpdatedAt.After(note.UpdatedAt))

	notes, err := c.ListNotes(ctx, space.ID.String())
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	require.NoError(t, c.DeleteSpace(ctx, space.ID.String()))

	notes, err = c.ListNotes(ctx, space.ID.String())
	require.NoError(t, err)
	assert.Empty(t, notes)

	gone, err := c.GetSpace(ctx, space.ID.String())
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestClient_AccessDeniedAcrossUsers(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	owner := NewClient(server.URL)
	_, err := owner.SignUp(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)
	space, err := owner.CreateSpace(ctx, "Algebra")
	require.NoError(t, err)
	note, err := owner.CreateNote(ctx, space.ID.String(), "Chapter 1")
	require.NoError(t, err)

	intruder := NewClient(server.URL)
	_, err = intruder.SignUp(ctx, "eve@example.com", "secret1", "Eve")
	require.NoError(t, err)

	_, err = intruder.GetSpace(ctx, space.ID.String())
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	_, err = intruder.GetNote(ctx, note.ID.String())
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	err = intruder.SaveNote(ctx, note.ID.String(), models.NoteFields{Content: strPtr("pwned")})
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	err = intruder.DeleteSpace(ctx, space.ID.String())
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	spaces, err := intruder.ListSpaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, spaces)
}

func TestClient_AbsentAndGuards(t *testing.T) {
	server := newTestServer(t)
	c := NewClient(server.URL)
	ctx := context.Background()

	spaces, err := c.ListSpaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, spaces)

	_, err = c.CreateSpace(ctx, "Algebra")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = c.SignUp(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)

	note, err := c.GetNote(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, note)

	_, err = c.CreateNote(ctx, uuid.NewString(), "   ")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = c.CreateNote(ctx, uuid.NewString(), "Chapter 1")
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, c.DeleteSpace(ctx, ""), services.ErrSpaceNotFound)
	assert.ErrorIs(t, c.SaveNote(ctx, "", models.NoteFields{}), services.ErrNoteNotFound)
	assert.NoError(t, c.DeleteNote(ctx, uuid.NewString()))
}

func TestClient_SignInAndOut(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	_, err := NewClient(server.URL).SignUp(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)

	c := NewClient(server.URL)
	_, err = c.SignIn(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Empty(t, c.AuthToken())

	identity, err := c.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", identity.DisplayName)

	require.NoError(t, c.SignOut(ctx))
	assert.Empty(t, c.AuthToken())

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health["status"])
}

func TestDecodeResponse_CascadeConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"cascade delete incomplete","space_id":"s1","remaining":["n1","n2","n3"],"failed":["n2","n3"]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	c.SetAuthToken("token")
	err := c.DeleteSpace(context.Background(), "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrCascadeDelete)

	var cascadeErr *services.CascadeDeleteError
	require.True(t, errors.As(err, &cascadeErr))
	assert.Equal(t, "s1", cascadeErr.SpaceID)
	assert.Equal(t, []string{"n1", "n2", "n3"}, cascadeErr.Remaining)
	assert.Equal(t, []string{"n2", "n3"}, cascadeErr.Failed)
}
