package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"study-sync/studysync/broker"
	"study-sync/studysync/database"
	"study-sync/studysync/models"
)

type SpaceServiceInterface interface {
	CreateSpace(ctx context.Context, ownerID, name string) (models.Space, error)
	ListSpaces(ctx context.Context, ownerID string) ([]models.Space, error)
	GetSpace(ctx context.Context, actorID, spaceID string) (*models.Space, error)
	DeleteSpace(ctx context.Context, actorID, spaceID string) error
}

type SpaceService struct {
	db *database.Database
}

func NewSpaceService(db *database.Database) *SpaceService {
	return &SpaceService{db: db}
}

func (s *SpaceService) CreateSpace(ctx context.Context, ownerID, name string) (models.Space, error) {
	owner, ok := parseID(ownerID)
	if !ok {
		return models.Space{}, validationError("user must be logged in to create a space")
	}
	if strings.TrimSpace(name) == "" {
		return models.Space{}, validationError("name is required")
	}

	space := models.Space{
		UserID:    owner,
		Name:      name,
		CreatedAt: s.db.Now(),
	}

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&space).Error; err != nil {
			return err
		}
		return recordEvent(tx, broker.SpaceCreated, "space", "create", ownerID, map[string]interface{}{
			"space_id":   space.ID.String(),
			"user_id":    ownerID,
			"name":       space.Name,
			"created_at": space.CreatedAt,
		})
	})
	if err != nil {
		return models.Space{}, err
	}

	return space, nil
}

// ListSpaces returns the owner's spaces, oldest first.
func (s *SpaceService) ListSpaces(ctx context.Context, ownerID string) ([]models.Space, error) {
	spaces := []models.Space{}
	owner, ok := parseID(ownerID)
	if !ok {
		return spaces, nil
	}

	err := s.db.DB.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at ASC").
		Find(&spaces).Error
	if err != nil {
		return nil, err
	}
	return spaces, nil
}

// GetSpace returns nil without error when the space does not exist.
func (s *SpaceService) GetSpace(ctx context.Context, actorID, spaceID string) (*models.Space, error) {
	id, ok := parseID(spaceID)
	if !ok {
		return nil, nil
	}

	var space models.Space
	if err := s.db.DB.WithContext(ctx).First(&space, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if space.UserID.String() != actorID {
		return nil, ErrAccessDenied
	}
	return &space, nil
}

// DeleteSpace removes every note of the space and then the space itself.
// The whole cascade runs in one transaction: if any note cannot be deleted
// a *CascadeDeleteError is returned and nothing is removed.
func (s *SpaceService) DeleteSpace(ctx context.Context, actorID, spaceID string) error {
	if spaceID == "" {
		return ErrSpaceNotFound
	}
	id, ok := parseID(spaceID)
	if !ok {
		return nil
	}

	return s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space models.Space
		if err := tx.First(&space, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if space.UserID.String() != actorID {
			return ErrAccessDenied
		}

		var noteIDs []string
		if err := tx.Model(&models.Note{}).Where("space_id = ?", id).Pluck("id", &noteIDs).Error; err != nil {
			return err
		}

		for i, noteID := range noteIDs {
			err := tx.Delete(&models.Note{}, "id = ?", noteID).Error
			if err == nil {
				err = recordEvent(tx, broker.NoteDeleted, "note", "delete", actorID, map[string]interface{}{
					"note_id":  noteID,
					"space_id": spaceID,
					"user_id":  actorID,
				})
			}
			if err != nil {
				cascadeErr := &CascadeDeleteError{
					SpaceID:   spaceID,
					Remaining: noteIDs,
					Failed:    append([]string(nil), noteIDs[i:]...),
					Err:       err,
				}
				log.Error().Err(err).Str("space_id", spaceID).Strs("failed", cascadeErr.Failed).Msg("cascade delete aborted")
				return cascadeErr
			}
		}

		if err := tx.Delete(&space).Error; err != nil {
			return err
		}

		return recordEvent(tx, broker.SpaceDeleted, "space", "delete", actorID, map[string]interface{}{
			"space_id":      spaceID,
			"user_id":       actorID,
			"deleted_notes": len(noteIDs),
		})
	})
}
