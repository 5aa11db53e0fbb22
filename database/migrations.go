package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"study-sync/studysync/models"
)

// RunMigrations brings the schema up to date with the models.
func RunMigrations(db *gorm.DB) error {
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Space{},
		&models.Note{},
		&models.Event{},
	)
	if err != nil {
		log.Error().Err(err).Msg("migration failed")
		return err
	}

	return nil
}
