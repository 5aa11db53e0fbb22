package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteJSON(t *testing.T) {
	data := `{
		"id": "550e8400-e29b-41d4-a716-446655440000",
		"space_id": "550e8400-e29b-41d4-a716-446655440002",
		"user_id": "550e8400-e29b-41d4-a716-446655440001",
		"title": "Chapter 1",
		"content": "## intro",
		"updated_at": "2024-03-01T10:00:00Z"
	}`

	var note Note
	require.NoError(t, json.Unmarshal([]byte(data), &note))
	assert.Equal(t, "Chapter 1", note.Title)
	assert.Equal(t, "## intro", note.Content)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440002", note.SpaceID.String())
	assert.Equal(t, 2024, note.UpdatedAt.Year())
}

func TestNoteBeforeCreate_AssignsID(t *testing.T) {
	note := Note{Title: "Chapter 1"}
	require.NoError(t, note.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, note.ID)

	existing := uuid.New()
	kept := Note{ID: existing}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, existing, kept.ID)
}

func TestNoteFields_OmitsUnsetFields(t *testing.T) {
	title := "Renamed"
	fields := NoteFields{Title: &title}

	data, err := json.Marshal(Note{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"content":""`)

	var decoded NoteFields
	require.NoError(t, jsonRoundTrip(fields, &decoded))
	assert.Equal(t, "Renamed", *decoded.Title)
	assert.Nil(t, decoded.Content)
	assert.Nil(t, decoded.UpdatedAt)
}
