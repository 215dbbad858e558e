// Package validation collects field-level violations as translation codes.
package validation

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// NonField is the key under which form-wide errors are recorded.
const NonField = "__all__"

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

// Has reports whether field has a violation.
func (v Violations) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func MaxLength(field, value string, max int, v Violations) {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, "too_long")
	}
}

// Email accepts an empty value; pair it with Required when the field is mandatory.
func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		v.Add(field, "invalid_email")
	}
}

// OneOf checks value against allowed. Empty values are left to Required.
func OneOf[T ~string](field, value string, allowed []T, v Violations) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if string(a) == value {
			return
		}
	}
	v.Add(field, "invalid_choice")
}

// Decimal parses a fixed-point amount with at most maxDigits digits, places of them after the point.
// Trailing zeros count as written, so "1.500" exceeds two places. Negative values are rejected.
func Decimal(field, value string, maxDigits, places int32, v Violations) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, "required")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		v.Add(field, "invalid_decimal")
		return decimal.Zero
	}
	if d.IsNegative() {
		v.Add(field, "must_be_non_negative")
		return d
	}
	if -d.Exponent() > places {
		v.Add(field, "max_decimal_places")
		return d
	}
	if len(d.Truncate(0).Abs().String()) > int(maxDigits-places) {
		v.Add(field, "max_digits")
	}
	return d
}

// Date parses a YYYY-MM-DD value as midnight UTC.
func Date(field, value string, v Violations) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, "required")
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		v.Add(field, "invalid_date")
		return time.Time{}, false
	}
	return t, true
}
