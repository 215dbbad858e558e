package forms

import (
	"net/url"

	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/validation"
)

// ClientForm carries the fields of the client create/edit screen.
type ClientForm struct {
	Name    string
	Type    string
	TaxID   string
	Address string
	Phone   string
	Email   string
	Active  bool
}

// NewClientForm returns the blank form with the default type and the client marked active.
func NewClientForm() ClientForm {
	return ClientForm{Type: string(models.ClientIndividual), Active: true}
}

func ClientFormFromValues(vals url.Values) ClientForm {
	return ClientForm{
		Name:    field(vals, "nombre"),
		Type:    field(vals, "tipo_cliente"),
		TaxID:   field(vals, "nit"),
		Address: field(vals, "direccion"),
		Phone:   field(vals, "telefono"),
		Email:   field(vals, "email"),
		Active:  checkbox(vals, "activo"),
	}
}

func ClientFormFromModel(c *models.Client) ClientForm {
	return ClientForm{
		Name:    c.Name,
		Type:    string(c.Type),
		TaxID:   c.TaxID,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
		Active:  c.Active,
	}
}

func (f ClientForm) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nombre", f.Name, v)
	validation.MaxLength("nombre", f.Name, 200, v)
	validation.Required("tipo_cliente", f.Type, v)
	validation.OneOf("tipo_cliente", f.Type, models.ClientTypes, v)
	validation.Required("nit", f.TaxID, v)
	validation.MaxLength("nit", f.TaxID, 20, v)
	validation.Required("direccion", f.Address, v)
	validation.Required("telefono", f.Phone, v)
	validation.MaxLength("telefono", f.Phone, 20, v)
	validation.Required("email", f.Email, v)
	validation.MaxLength("email", f.Email, 254, v)
	validation.Email("email", f.Email, v)
	return v
}

// Apply copies the form into c. Call it only after Validate reports no violations.
func (f ClientForm) Apply(c *models.Client) {
	c.Name = f.Name
	c.Type = models.ClientType(f.Type)
	c.TaxID = f.TaxID
	c.Address = f.Address
	c.Phone = f.Phone
	c.Email = f.Email
	c.Active = f.Active
}
