package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"study-sync/studysync/broker"
	"study-sync/studysync/database"
	"study-sync/studysync/models"
)

type UserServiceInterface interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserById(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type UserService struct {
	db *database.Database
}

func NewUserService(db *database.Database) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.Email = normalizeEmail(user.Email)

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrResourceExists
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		return recordEvent(tx, broker.UserCreated, "user", "create", user.ID.String(), map[string]interface{}{
			"user_id": user.ID.String(),
			"email":   user.Email,
		})
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s *UserService) GetUserById(ctx context.Context, id string) (models.User, error) {
	parsed, ok := parseID(id)
	if !ok {
		return models.User{}, ErrUserNotFound
	}

	var user models.User
	if err := s.db.DB.WithContext(ctx).First(&user, "id = ?", parsed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := s.db.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
