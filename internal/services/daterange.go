package services

import (
	"time"

	"gorm.io/gorm"
)

// DateRange bounds a date or timestamp column. From is inclusive and Until exclusive;
// a zero bound leaves that side open.
type DateRange struct {
	From  time.Time
	Until time.Time
}

func (d DateRange) apply(q *gorm.DB, column string) *gorm.DB {
	if !d.From.IsZero() {
		q = q.Where(column+" >= ?", d.From)
	}
	if !d.Until.IsZero() {
		q = q.Where(column+" < ?", d.Until)
	}
	return q
}
