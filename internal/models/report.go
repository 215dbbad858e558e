package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ReportType names the accounting statement a report record refers to.
type ReportType string

const (
	ReportBalanceSheet    ReportType = "balance_general"
	ReportIncomeStatement ReportType = "estado_resultados"
	ReportCashFlow        ReportType = "flujo_efectivo"
	ReportJournal         ReportType = "libro_diario"
	ReportLedger          ReportType = "libro_mayor"
)

var ReportTypes = []ReportType{ReportBalanceSheet, ReportIncomeStatement, ReportCashFlow, ReportJournal, ReportLedger}

// ErrInvalidPeriod is returned by the save hook when PeriodStart is after PeriodEnd.
var ErrInvalidPeriod = errors.New("models: report period start is after period end")

// Report is metadata about a requested report; FilePath points at an optional uploaded PDF.
type Report struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ClientID    uint       `gorm:"not null;index" json:"client_id"`
	Client      *Client    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Type        ReportType `gorm:"size:30;not null" json:"type"`
	PeriodStart time.Time  `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd   time.Time  `gorm:"type:date;not null" json:"period_end"`
	GeneratedAt time.Time  `gorm:"autoCreateTime;not null;index" json:"generated_at"`
	CreatedByID uint       `gorm:"<-:create;not null;index" json:"created_by_id"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	FilePath    string     `gorm:"size:255" json:"file_path,omitempty"`
}

func (r *Report) BeforeSave(*gorm.DB) error {
	if r.PeriodStart.After(r.PeriodEnd) {
		return ErrInvalidPeriod
	}
	return nil
}
