package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType is the direction of a monetary movement.
type TransactionType string

const (
	TransactionIncome   TransactionType = "ingreso"
	TransactionExpense  TransactionType = "gasto"
	TransactionTransfer TransactionType = "transferencia"
)

var TransactionTypes = []TransactionType{TransactionIncome, TransactionExpense, TransactionTransfer}

// TransactionStatus is a plain label; no transition rules apply between values.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pendiente"
	StatusApproved  TransactionStatus = "aprobado"
	StatusRejected  TransactionStatus = "rechazado"
	StatusCompleted TransactionStatus = "completado"
)

var TransactionStatuses = []TransactionStatus{StatusPending, StatusApproved, StatusRejected, StatusCompleted}

// ErrNegativeAmount is returned by the save hook when Amount < 0.
var ErrNegativeAmount = errors.New("models: transaction amount must not be negative")

// Transaction is a dated monetary movement for one client and one category.
// CreatedByID is written on insert only.
type Transaction struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	ClientID     uint              `gorm:"not null;index" json:"client_id"`
	Client       *Client           `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	CategoryID   uint              `gorm:"not null;index" json:"category_id"`
	Category     *Category         `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Type         TransactionType   `gorm:"size:20;not null;index" json:"type"`
	Amount       decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description  string            `gorm:"type:text;not null" json:"description"`
	Date         time.Time         `gorm:"type:date;not null;index" json:"date"`
	RegisteredAt time.Time         `gorm:"autoCreateTime;not null;index" json:"registered_at"`
	Status       TransactionStatus `gorm:"size:20;not null;index" json:"status"`
	ReceiptPath  string            `gorm:"size:255" json:"receipt_path,omitempty"`
	CreatedByID  uint              `gorm:"<-:create;not null;index" json:"created_by_id"`
	CreatedBy    *User             `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// BeforeSave keeps the non-negative amount rule for every write path, not just the forms.
func (t *Transaction) BeforeSave(*gorm.DB) error {
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// DateString formats Date for date inputs.
func (t Transaction) DateString() string {
	if t.Date.IsZero() {
		return ""
	}
	return t.Date.Format("2006-01-02")
}
