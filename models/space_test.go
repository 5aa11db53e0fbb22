package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRoundTrip(in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func TestSpaceJSON(t *testing.T) {
	data := `{
		"id": "550e8400-e89b-41d4-a716-446655440000",
		"user_id": "550e8400-e89b-41d4-a716-446655440001",
		"name": "Algebra"
	}`

	var space Space
	require.NoError(t, json.Unmarshal([]byte(data), &space))
	assert.Equal(t, "Algebra", space.Name)
	assert.Equal(t, "550e8400-e89b-41d4-a716-446655440000", space.ID.String())
	assert.Equal(t, "550e8400-e89b-41d4-a716-446655440001", space.UserID.String())
}

func TestSpaceBeforeCreate_AssignsID(t *testing.T) {
	space := Space{Name: "Algebra", UserID: uuid.New()}
	require.NoError(t, space.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, space.ID)
}

func TestUserIdentity(t *testing.T) {
	user := User{ID: uuid.New(), Email: "a@example.com", DisplayName: "Ada", PasswordHash: "secret"}
	identity := user.Identity()

	assert.Equal(t, user.ID.String(), identity.ID)
	assert.Equal(t, "Ada", identity.DisplayName)

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}
