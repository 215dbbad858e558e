package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/oficont/oficont/internal/models"
	"gorm.io/gorm"
)

// ContactUpdate changes the office contact fields. A nil field keeps the stored value.
type ContactUpdate struct {
	OfficeName    *string
	OfficeAddress *string
	OfficePhone   *string
	OfficeEmail   *string
}

// ConfigService guards the single SystemConfig row.
type ConfigService struct {
	db *gorm.DB
}

func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{db: db}
}

// GetOrCreate loads the configuration row, creating it with defaults on first access.
func (s *ConfigService) GetOrCreate(ctx context.Context) (*models.SystemConfig, error) {
	db := s.db.WithContext(ctx)
	var cfg models.SystemConfig
	err := db.First(&cfg, models.SystemConfigID).Error
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg = models.DefaultSystemConfig()
	if err := db.Create(&cfg).Error; err != nil {
		// Lost a race with a concurrent first access.
		if isDuplicate(err) {
			if err := db.First(&cfg, models.SystemConfigID).Error; err != nil {
				return nil, fmt.Errorf("load config: %w", err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("create config: %w", err)
	}
	return &cfg, nil
}

// UpdateContact applies u to the office contact fields. Currency and date format are untouched.
func (s *ConfigService) UpdateContact(ctx context.Context, u ContactUpdate) (*models.SystemConfig, error) {
	cfg, err := s.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if u.OfficeName != nil {
		cfg.OfficeName = *u.OfficeName
	}
	if u.OfficeAddress != nil {
		cfg.OfficeAddress = *u.OfficeAddress
	}
	if u.OfficePhone != nil {
		cfg.OfficePhone = *u.OfficePhone
	}
	if u.OfficeEmail != nil {
		cfg.OfficeEmail = *u.OfficeEmail
	}
	if err := s.db.WithContext(ctx).Model(cfg).
		Select("office_name", "office_address", "office_phone", "office_email").
		Updates(cfg).Error; err != nil {
		return nil, fmt.Errorf("update config: %w", err)
	}
	return cfg, nil
}

// List returns the configuration rows; there is at most one.
func (s *ConfigService) List(ctx context.Context) ([]models.SystemConfig, error) {
	var rows []models.SystemConfig
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	return rows, nil
}

func (s *ConfigService) Get(ctx context.Context, id uint) (*models.SystemConfig, error) {
	var cfg models.SystemConfig
	if err := s.db.WithContext(ctx).First(&cfg, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &cfg, nil
}

// Create inserts cfg as the configuration row. It fails with ErrConfigExists
// once any row exists.
func (s *ConfigService) Create(ctx context.Context, cfg *models.SystemConfig) error {
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.SystemConfig{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count config: %w", err)
	}
	if count > 0 {
		return ErrConfigExists
	}
	cfg.ID = models.SystemConfigID
	if err := db.Create(cfg).Error; err != nil {
		if isDuplicate(err) {
			return ErrConfigExists
		}
		return fmt.Errorf("create config: %w", err)
	}
	return nil
}

// Update overwrites every configuration field.
func (s *ConfigService) Update(ctx context.Context, cfg *models.SystemConfig) error {
	if err := s.db.WithContext(ctx).Model(cfg).
		Select("office_name", "office_address", "office_phone", "office_email", "currency", "date_format").
		Updates(cfg).Error; err != nil {
		return fmt.Errorf("update config: %w", err)
	}
	return nil
}

// Delete always refuses: the configuration row cannot be removed.
func (s *ConfigService) Delete(context.Context, uint) error {
	return ErrConfigProtected
}
