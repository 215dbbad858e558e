// Package forms turns submitted values into validated model fields.
//
// Every form keeps the raw submitted strings so a failed submission can be
// rendered back unchanged, and only touches its target model once the
// submission is valid.
package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/validation"
)

func field(vals url.Values, name string) string {
	return strings.TrimSpace(vals.Get(name))
}

// checkbox follows HTML semantics: the key is present only when ticked.
func checkbox(vals url.Values, name string) bool {
	v := strings.ToLower(vals.Get(name))
	switch v {
	case "", "0", "false", "off":
		return false
	}
	return true
}

func formatID(id uint) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}

// choiceID parses an id field and checks it against the allowed ids.
func choiceID(name, value string, allowed func(uint) bool, v validation.Violations) uint {
	if value == "" {
		v.Add(name, "required")
		return 0
	}
	id, err := strconv.ParseUint(value, 10, 0)
	if err != nil || id == 0 || !allowed(uint(id)) {
		v.Add(name, "invalid_choice")
		return 0
	}
	return uint(id)
}

func clientAllowed(clients []models.Client) func(uint) bool {
	return func(id uint) bool {
		for _, c := range clients {
			if c.ID == id {
				return true
			}
		}
		return false
	}
}

func categoryAllowed(cats []models.Category) func(uint) bool {
	return func(id uint) bool {
		for _, c := range cats {
			if c.ID == id {
				return true
			}
		}
		return false
	}
}
