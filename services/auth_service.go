package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"study-sync/studysync/models"
	"study-sync/studysync/utils/token"
)

type JWTClaims = token.JWTClaims

const minPasswordLength = 6

type AuthServiceInterface interface {
	SignUp(ctx context.Context, email, password, displayName string) (models.User, error)
	Login(ctx context.Context, email, password string) (string, models.User, error)
	IssueToken(user models.User) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
}

type AuthService struct {
	users         UserServiceInterface
	jwtSecret     []byte
	jwtExpiration time.Duration
}

func NewAuthService(users UserServiceInterface, jwtSecret string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		users:         users,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (models.User, error) {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return models.User{}, validationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return models.User{}, validationError("password must be at least 6 characters")
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	return s.users.CreateUser(ctx, models.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
	})
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, err
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	tokenString, err := s.IssueToken(user)
	if err != nil {
		return "", models.User{}, err
	}
	return tokenString, user, nil
}

func (s *AuthService) IssueToken(user models.User) (string, error) {
	return token.GenerateToken(user.ID, user.Email, user.DisplayName, s.jwtSecret, s.jwtExpiration)
}

func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims, err := token.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
