package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"study-sync/studysync/broker"
	"study-sync/studysync/database"
	"study-sync/studysync/models"
)

type NoteServiceInterface interface {
	CreateNote(ctx context.Context, spaceID, ownerID, title string) (models.Note, error)
	ListNotes(ctx context.Context, actorID, spaceID string) ([]models.Note, error)
	GetNote(ctx context.Context, actorID, noteID string) (*models.Note, error)
	SaveNote(ctx context.Context, actorID, noteID string, fields models.NoteFields) error
	DeleteNote(ctx context.Context, actorID, noteID string) error
}

type NoteService struct {
	db *database.Database
}

func NewNoteService(db *database.Database) *NoteService {
	return &NoteService{db: db}
}

func (s *NoteService) CreateNote(ctx context.Context, spaceID, ownerID, title string) (models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return models.Note{}, validationError("title is required")
	}
	owner, ok := parseID(ownerID)
	if !ok {
		return models.Note{}, validationError("user must be logged in to create a note")
	}
	space, ok := parseID(spaceID)
	if !ok {
		return models.Note{}, validationError("space is required")
	}

	now := s.db.Now()
	note := models.Note{
		SpaceID:   space,
		UserID:    owner,
		Title:     title,
		Content:   "",
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.Space
		if err := tx.First(&parent, "id = ?", space).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpaceNotFound
			}
			return err
		}
		if parent.UserID != owner {
			return ErrAccessDenied
		}

		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		return recordEvent(tx, broker.NoteCreated, "note", "create", ownerID, map[string]interface{}{
			"note_id":    note.ID.String(),
			"space_id":   spaceID,
			"user_id":    ownerID,
			"title":      note.Title,
			"created_at": note.CreatedAt,
		})
	})
	if err != nil {
		return models.Note{}, err
	}

	return note, nil
}

// ListNotes returns the notes of a space, most recently updated first.
func (s *NoteService) ListNotes(ctx context.Context, actorID, spaceID string) ([]models.Note, error) {
	notes := []models.Note{}
	space, ok := parseID(spaceID)
	if !ok {
		return notes, nil
	}
	actor, ok := parseID(actorID)
	if !ok {
		return notes, nil
	}

	err := s.db.DB.WithContext(ctx).
		Where("space_id = ? AND user_id = ?", space, actor).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote returns nil without error when the note does not exist.
func (s *NoteService) GetNote(ctx context.Context, actorID, noteID string) (*models.Note, error) {
	id, ok := parseID(noteID)
	if !ok {
		return nil, nil
	}

	var note models.Note
	if err := s.db.DB.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if note.UserID.String() != actorID {
		return nil, ErrAccessDenied
	}
	return &note, nil
}

// SaveNote merges fields into the note and stamps updated_at with the store
// clock. Any caller supplied UpdatedAt is ignored. Each save moves updated_at
// strictly forward.
func (s *NoteService) SaveNote(ctx context.Context, actorID, noteID string, fields models.NoteFields) error {
	if noteID == "" {
		return ErrNoteNotFound
	}
	id, ok := parseID(noteID)
	if !ok {
		return ErrNoteNotFound
	}

	return s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.First(&note, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoteNotFound
			}
			return err
		}
		if note.UserID.String() != actorID {
			return ErrAccessDenied
		}
		if fields.SpaceID != nil && *fields.SpaceID != note.SpaceID.String() {
			return validationError("space_id is immutable")
		}
		if fields.UserID != nil && *fields.UserID != note.UserID.String() {
			return validationError("user_id is immutable")
		}

		updatedAt := s.db.Now()
		if !updatedAt.After(note.UpdatedAt) {
			updatedAt = note.UpdatedAt.Add(time.Microsecond)
		}

		title := note.Title
		updates := map[string]interface{}{"updated_at": updatedAt}
		if fields.Title != nil {
			title = *fields.Title
			updates["title"] = title
		}
		if fields.Content != nil {
			updates["content"] = *fields.Content
		}

		if err := tx.Model(&note).Updates(updates).Error; err != nil {
			return err
		}

		return recordEvent(tx, broker.NoteUpdated, "note", "update", actorID, map[string]interface{}{
			"note_id":    note.ID.String(),
			"space_id":   note.SpaceID.String(),
			"user_id":    note.UserID.String(),
			"title":      title,
			"updated_at": updatedAt,
		})
	})
}

// DeleteNote is a no-op for notes that are already gone.
func (s *NoteService) DeleteNote(ctx context.Context, actorID, noteID string) error {
	if noteID == "" {
		return ErrNoteNotFound
	}
	id, ok := parseID(noteID)
	if !ok {
		return nil
	}

	return s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.First(&note, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if note.UserID.String() != actorID {
			return ErrAccessDenied
		}

		if err := tx.Delete(&note).Error; err != nil {
			return err
		}

		return recordEvent(tx, broker.NoteDeleted, "note", "delete", actorID, map[string]interface{}{
			"note_id":  note.ID.String(),
			"space_id": note.SpaceID.String(),
			"user_id":  note.UserID.String(),
		})
	})
}
