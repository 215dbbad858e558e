package services

import (
	"context"
	"fmt"

	"github.com/oficont/oficont/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var clientColumns = []string{"name", "type", "tax_id", "address", "phone", "email", "active"}

// ClientQuery narrows the admin client list. Zero fields are ignored.
type ClientQuery struct {
	Search     string
	Type       string
	Active     *bool
	Registered DateRange
}

// ClientDetail is a client with its transactions and totals.
type ClientDetail struct {
	Client       models.Client
	Transactions []models.Transaction
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Balance      decimal.Decimal
}

type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// List returns every client ordered by name.
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.Search(ctx, ClientQuery{})
}

// Active returns the clients that can be picked for new transactions and reports.
func (s *ClientService) Active(ctx context.Context) ([]models.Client, error) {
	active := true
	return s.Search(ctx, ClientQuery{Active: &active})
}

// Search matches name, tax ID and email case-insensitively.
func (s *ClientService) Search(ctx context.Context, q ClientQuery) ([]models.Client, error) {
	tx := s.db.WithContext(ctx).Model(&models.Client{})
	if q.Search != "" {
		p := likePattern(q.Search)
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(tax_id) LIKE ? OR LOWER(email) LIKE ?", p, p, p)
	}
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if q.Active != nil {
		tx = tx.Where("active = ?", *q.Active)
	}
	tx = q.Registered.apply(tx, "registered_at")
	var clients []models.Client
	if err := tx.Order("name").Order("id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Detail loads the client with its transactions (newest first) and income/expense totals.
func (s *ClientService) Detail(ctx context.Context, id uint) (*ClientDetail, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &ClientDetail{Client: *c}
	db := s.db.WithContext(ctx)
	if err := db.Preload("Category").Where("client_id = ?", id).
		Order("date DESC").Order("id DESC").Find(&d.Transactions).Error; err != nil {
		return nil, fmt.Errorf("client transactions: %w", err)
	}
	scoped := func(t models.TransactionType) *gorm.DB {
		return db.Model(&models.Transaction{}).Where("client_id = ? AND type = ?", id, t)
	}
	if d.Income, err = sumAmount(scoped(models.TransactionIncome)); err != nil {
		return nil, err
	}
	if d.Expense, err = sumAmount(scoped(models.TransactionExpense)); err != nil {
		return nil, err
	}
	d.Balance = d.Income.Sub(d.Expense)
	return d, nil
}

// TaxIDTaken reports whether another client (not excludeID) already uses taxID.
func (s *ClientService) TaxIDTaken(ctx context.Context, taxID string, excludeID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Client{}).Where("tax_id = ?", taxID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check tax id: %w", err)
	}
	return count > 0, nil
}

// Create inserts c. A tax ID already in use returns ErrTaxIDTaken, whether caught by the
// pre-check or by the unique index.
func (s *ClientService) Create(ctx context.Context, c *models.Client) error {
	taken, err := s.TaxIDTaken(ctx, c.TaxID, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrTaxIDTaken
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicate(err) {
			return ErrTaxIDTaken
		}
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// Update overwrites every editable column of c.
func (s *ClientService) Update(ctx context.Context, c *models.Client) error {
	taken, err := s.TaxIDTaken(ctx, c.TaxID, c.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrTaxIDTaken
	}
	res := s.db.WithContext(ctx).Model(c).Select(clientColumns).Updates(c)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return ErrTaxIDTaken
		}
		return fmt.Errorf("update client: %w", res.Error)
	}
	return nil
}

// Delete removes the client; its transactions and reports go with it.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Client{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
