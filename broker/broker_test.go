package broker

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "studysync.note.updated", Subject("studysync", string(NoteUpdated)))
	assert.Equal(t, "note.updated", Subject("", string(NoteUpdated)))
	assert.Equal(t, "studysync.>", Wildcard("studysync"))
}

func TestEventTypeFromSubject(t *testing.T) {
	assert.Equal(t, "space.deleted", EventTypeFromSubject("studysync", "studysync.space.deleted"))
	assert.Equal(t, "space.deleted", EventTypeFromSubject("", "space.deleted"))
}

func TestNilProducerPublish(t *testing.T) {
	var p *NATSProducer
	assert.ErrorIs(t, p.Publish(string(NoteCreated), []byte("{}")), nats.ErrConnectionClosed)
	assert.NotPanics(t, p.Close)
}
