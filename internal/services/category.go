package services

import (
	"context"
	"fmt"

	"github.com/oficont/oficont/internal/models"
	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// List returns every category grouped by type, then by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.Search(ctx, "", "")
}

// Search matches name and description; typ filters by category type when set.
func (s *CategoryService) Search(ctx context.Context, q, typ string) ([]models.Category, error) {
	tx := s.db.WithContext(ctx).Model(&models.Category{})
	if q != "" {
		p := likePattern(q)
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	if typ != "" {
		tx = tx.Where("type = ?", typ)
	}
	var cats []models.Category
	if err := tx.Order("type").Order("name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *CategoryService) Create(ctx context.Context, c *models.Category) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *CategoryService) Update(ctx context.Context, c *models.Category) error {
	if err := s.db.WithContext(ctx).Model(c).Select("name", "description", "type").Updates(c).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
