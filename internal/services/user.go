package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oficont/oficont/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength applies to passwords set through the reset flow and the CLI.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrPasswordTooShort   = errors.New("password_too_short")
	ErrEmailTaken         = errors.New("email_taken")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate checks the credentials of an active user and stamps LastLogin.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.FindActiveByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(u).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}
	u.LastLogin = &now
	return u, nil
}

// FindActiveByEmail matches the email case-insensitively.
func (s *UserService) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("LOWER(email) = ? AND active = ?", normalizeEmail(email), true).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// IsActive reports whether id names an active user. It backs session verification.
func (s *UserService) IsActive(ctx context.Context, id uint) bool {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ? AND active = ?", id, true).Count(&count).Error
	return err == nil && count > 0
}

// SetPassword replaces the stored hash, which also invalidates outstanding reset tokens.
func (s *UserService) SetPassword(ctx context.Context, u *models.User, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(u).Update("password", hash).Error; err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	u.Password = hash
	return nil
}

// Create adds an active user. profileName may be empty; otherwise it must name an existing profile.
func (s *UserService) Create(ctx context.Context, email, name, password, profileName string) (*models.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u := models.User{Email: normalizeEmail(email), Name: strings.TrimSpace(name), Password: hash, Active: true}
	db := s.db.WithContext(ctx)
	if profileName != "" {
		var p models.Profile
		if err := db.Where("name = ?", profileName).First(&p).Error; err != nil {
			return nil, fmt.Errorf("profile %q: %w", profileName, notFound(err))
		}
		u.ProfileID = &p.ID
	}
	if err := db.Create(&u).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
