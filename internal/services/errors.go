package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrTaxIDTaken      = errors.New("tax_id_taken")
	ErrMissingCreator  = errors.New("missing_creator")
	ErrConfigExists    = errors.New("config_singleton")
	ErrConfigProtected = errors.New("config_undeletable")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// isDuplicate matches unique violations from drivers without error translation as well.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// sumAmount returns SUM(amount) over q, or zero when no rows match.
func sumAmount(q *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum amount: %w", err)
	}
	return total.Round(2), nil
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
