package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"study-sync/studysync/broker"
	"study-sync/studysync/models"
)

// recordEvent appends an outbox row inside the caller's transaction.
func recordEvent(tx *gorm.DB, eventType broker.EventType, entity, operation, actorID string, data map[string]interface{}) error {
	event, err := models.NewEvent(string(eventType), entity, operation, actorID, data)
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

func parseID(id string) (uuid.UUID, bool) {
	if id == "" {
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}
