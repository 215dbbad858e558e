package forms

import (
	"net/url"

	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/validation"
)

// CategoryForm backs category management under /admin.
type CategoryForm struct {
	Name        string
	Description string
	Type        string
}

func CategoryFormFromValues(vals url.Values) CategoryForm {
	return CategoryForm{
		Name:        field(vals, "nombre"),
		Description: field(vals, "descripcion"),
		Type:        field(vals, "tipo"),
	}
}

func (f CategoryForm) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nombre", f.Name, v)
	validation.MaxLength("nombre", f.Name, 100, v)
	validation.Required("descripcion", f.Description, v)
	validation.Required("tipo", f.Type, v)
	validation.OneOf("tipo", f.Type, models.CategoryTypes, v)
	return v
}

func (f CategoryForm) Apply(c *models.Category) {
	c.Name = f.Name
	c.Description = f.Description
	c.Type = models.CategoryType(f.Type)
}
