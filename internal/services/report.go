package services

import (
	"context"
	"fmt"

	"github.com/oficont/oficont/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportFilter narrows the admin report list. Search matches the client name.
type ReportFilter struct {
	Type      string
	Search    string
	Generated DateRange
}

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// List returns every report, most recently generated first.
func (s *ReportService) List(ctx context.Context) ([]models.Report, error) {
	return s.Search(ctx, ReportFilter{})
}

func (s *ReportService) Search(ctx context.Context, f ReportFilter) ([]models.Report, error) {
	q := s.db.WithContext(ctx).Preload("Client")
	if f.Type != "" {
		q = q.Where("reports.type = ?", f.Type)
	}
	if f.Search != "" {
		q = q.Where("reports.client_id IN (?)",
			s.db.Model(&models.Client{}).Select("id").Where("LOWER(name) LIKE ?", likePattern(f.Search)))
	}
	q = f.Generated.apply(q, "reports.generated_at")
	var reports []models.Report
	if err := q.Order("reports.generated_at DESC").Order("reports.id DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) Get(ctx context.Context, id uint) (*models.Report, error) {
	var r models.Report
	if err := s.db.WithContext(ctx).Preload("Client").First(&r, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// Generate records a report request made by creatorID. No content is produced.
func (s *ReportService) Generate(ctx context.Context, r *models.Report, creatorID uint) error {
	if creatorID == 0 {
		return ErrMissingCreator
	}
	r.CreatedByID = creatorID
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	return nil
}

func (s *ReportService) Update(ctx context.Context, r *models.Report) error {
	if err := s.db.WithContext(ctx).Model(r).Omit(clause.Associations).
		Select("client_id", "type", "period_start", "period_end", "file_path").Updates(r).Error; err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

func (s *ReportService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Report{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete report: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
