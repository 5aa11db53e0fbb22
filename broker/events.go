package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	SpaceCreated EventType = "space.created"
	SpaceDeleted EventType = "space.deleted"

	NoteCreated EventType = "note.created"
	NoteUpdated EventType = "note.updated"
	NoteDeleted EventType = "note.deleted"

	UserCreated EventType = "user.created"
)
