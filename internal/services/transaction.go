package services

import (
	"context"
	"fmt"

	"github.com/oficont/oficont/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var transactionColumns = []string{
	"client_id", "category_id", "type", "amount", "description", "date", "status", "receipt_path",
}

// TransactionFilter narrows the transaction list; zero fields are ignored and the
// rest combine with AND. Search matches the client name or the description.
type TransactionFilter struct {
	ClientID   uint
	CategoryID uint
	Type       string
	Status     string
	Search     string
	Date       DateRange
}

type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// List returns matching transactions, newest transaction date first, with client and category loaded.
func (s *TransactionService) List(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Preload("Client").Preload("Category")
	if f.ClientID != 0 {
		q = q.Where("transactions.client_id = ?", f.ClientID)
	}
	if f.CategoryID != 0 {
		q = q.Where("transactions.category_id = ?", f.CategoryID)
	}
	if f.Type != "" {
		q = q.Where("transactions.type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("transactions.status = ?", f.Status)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(transactions.description) LIKE ? OR transactions.client_id IN (?)", p,
			s.db.Model(&models.Client{}).Select("id").Where("LOWER(name) LIKE ?", p))
	}
	q = f.Date.apply(q, "transactions.date")
	var txs []models.Transaction
	if err := q.Order("transactions.date DESC").Order("transactions.id DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionService) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).Preload("Client").Preload("Category").First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// Create inserts t on behalf of creatorID, which is stored once and never updated.
func (s *TransactionService) Create(ctx context.Context, t *models.Transaction, creatorID uint) error {
	if creatorID == 0 {
		return ErrMissingCreator
	}
	t.CreatedByID = creatorID
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of t. The creator column is never written.
func (s *TransactionService) Update(ctx context.Context, t *models.Transaction) error {
	if err := s.db.WithContext(ctx).Model(t).Omit(clause.Associations).
		Select(transactionColumns).Updates(t).Error; err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Transaction{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
