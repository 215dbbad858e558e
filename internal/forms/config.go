package forms

import (
	"net/url"
	"strings"

	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/validation"
)

func optional(vals url.Values, name string) *string {
	if _, ok := vals[name]; !ok {
		return nil
	}
	s := strings.TrimSpace(vals.Get(name))
	return &s
}

// ContactUpdateFromValues reads the office contact fields. Absent keys stay nil so
// the stored values are kept; present empty keys clear the field.
func ContactUpdateFromValues(vals url.Values) (services.ContactUpdate, validation.Violations) {
	u := services.ContactUpdate{
		OfficeName:    optional(vals, "nombre_oficina"),
		OfficeAddress: optional(vals, "direccion_oficina"),
		OfficePhone:   optional(vals, "telefono_oficina"),
		OfficeEmail:   optional(vals, "email_oficina"),
	}
	v := validation.Violations{}
	if u.OfficeName != nil {
		validation.MaxLength("nombre_oficina", *u.OfficeName, 200, v)
	}
	if u.OfficePhone != nil {
		validation.MaxLength("telefono_oficina", *u.OfficePhone, 20, v)
	}
	if u.OfficeEmail != nil {
		validation.MaxLength("email_oficina", *u.OfficeEmail, 254, v)
		validation.Email("email_oficina", *u.OfficeEmail, v)
	}
	return u, v
}

// SystemConfigForm edits every configuration field through /admin.
type SystemConfigForm struct {
	OfficeName    string
	OfficeAddress string
	OfficePhone   string
	OfficeEmail   string
	Currency      string
	DateFormat    string
}

// SystemConfigFormFromValues starts from the defaults so omitted fields keep them.
func SystemConfigFormFromValues(vals url.Values, base models.SystemConfig) SystemConfigForm {
	pick := func(name, fallback string) string {
		if p := optional(vals, name); p != nil {
			return *p
		}
		return fallback
	}
	return SystemConfigForm{
		OfficeName:    pick("nombre_oficina", base.OfficeName),
		OfficeAddress: pick("direccion_oficina", base.OfficeAddress),
		OfficePhone:   pick("telefono_oficina", base.OfficePhone),
		OfficeEmail:   pick("email_oficina", base.OfficeEmail),
		Currency:      pick("moneda", base.Currency),
		DateFormat:    pick("formato_fecha", base.DateFormat),
	}
}

func (f SystemConfigForm) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nombre_oficina", f.OfficeName, v)
	validation.MaxLength("nombre_oficina", f.OfficeName, 200, v)
	validation.MaxLength("telefono_oficina", f.OfficePhone, 20, v)
	validation.MaxLength("email_oficina", f.OfficeEmail, 254, v)
	validation.Email("email_oficina", f.OfficeEmail, v)
	validation.Required("moneda", f.Currency, v)
	validation.MaxLength("moneda", f.Currency, 10, v)
	validation.Required("formato_fecha", f.DateFormat, v)
	validation.MaxLength("formato_fecha", f.DateFormat, 20, v)
	return v
}

func (f SystemConfigForm) Apply(c *models.SystemConfig) {
	c.OfficeName = f.OfficeName
	c.OfficeAddress = f.OfficeAddress
	c.OfficePhone = f.OfficePhone
	c.OfficeEmail = f.OfficeEmail
	c.Currency = f.Currency
	c.DateFormat = f.DateFormat
}
