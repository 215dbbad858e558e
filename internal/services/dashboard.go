package services

import (
	"context"
	"fmt"
	"time"

	"github.com/oficont/oficont/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const recentLimit = 5

// Summary holds the figures shown on the dashboard home.
type Summary struct {
	Year               int
	Month              time.Month
	ActiveClients      int64
	TotalTransactions  int64
	MonthIncome        decimal.Decimal
	MonthExpense       decimal.Decimal
	MonthBalance       decimal.Decimal
	RecentTransactions []models.Transaction
	RecentClients      []models.Client
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// MonthRange returns [first day of now's month, first day of the next month) in UTC.
func MonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Summary computes every dashboard figure from scratch. Monthly sums use the
// transaction date, not the registration time.
func (s *DashboardService) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	out := &Summary{Year: now.Year(), Month: now.Month()}
	start, end := MonthRange(now)

	g, gctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return s.db.WithContext(gctx) }
	monthly := func(t models.TransactionType) *gorm.DB {
		return db().Model(&models.Transaction{}).
			Where("type = ? AND date >= ? AND date < ?", t, start, end)
	}

	g.Go(func() error {
		if err := db().Model(&models.Client{}).Where("active = ?", true).Count(&out.ActiveClients).Error; err != nil {
			return fmt.Errorf("count active clients: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db().Model(&models.Transaction{}).Count(&out.TotalTransactions).Error; err != nil {
			return fmt.Errorf("count transactions: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		out.MonthIncome, err = sumAmount(monthly(models.TransactionIncome))
		return err
	})
	g.Go(func() (err error) {
		out.MonthExpense, err = sumAmount(monthly(models.TransactionExpense))
		return err
	})
	g.Go(func() error {
		if err := db().Preload("Client").Preload("Category").
			Order("registered_at DESC").Order("id DESC").Limit(recentLimit).
			Find(&out.RecentTransactions).Error; err != nil {
			return fmt.Errorf("recent transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db().Where("active = ?", true).
			Order("registered_at DESC").Order("id DESC").Limit(recentLimit).
			Find(&out.RecentClients).Error; err != nil {
			return fmt.Errorf("recent clients: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.MonthBalance = out.MonthIncome.Sub(out.MonthExpense)
	return out, nil
}
