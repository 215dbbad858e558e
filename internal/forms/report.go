package forms

import (
	"net/url"

	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/validation"
)

// ReportForm carries the fields of the report request screen.
type ReportForm struct {
	ClientID string
	Type     string
	Start    string
	End      string
}

func ReportFormFromValues(vals url.Values) ReportForm {
	return ReportForm{
		ClientID: field(vals, "cliente"),
		Type:     field(vals, "tipo_reporte"),
		Start:    field(vals, "fecha_inicio"),
		End:      field(vals, "fecha_fin"),
	}
}

func ReportFormFromModel(r *models.Report) ReportForm {
	return ReportForm{
		ClientID: formatID(r.ClientID),
		Type:     string(r.Type),
		Start:    r.PeriodStart.Format(validation.DateLayout),
		End:      r.PeriodEnd.Format(validation.DateLayout),
	}
}

// Bind validates the submission against the selectable clients and, when valid,
// copies it into r. A missing field adds missing_fields and a reversed period
// adds period_order, both as form-level errors.
func (f ReportForm) Bind(r *models.Report, clients []models.Client) validation.Violations {
	v := validation.Violations{}
	if f.ClientID == "" || f.Type == "" || f.Start == "" || f.End == "" {
		v.Add(validation.NonField, "missing_fields")
	}
	clientID := choiceID("cliente", f.ClientID, clientAllowed(clients), v)
	validation.Required("tipo_reporte", f.Type, v)
	validation.OneOf("tipo_reporte", f.Type, models.ReportTypes, v)
	start, okStart := validation.Date("fecha_inicio", f.Start, v)
	end, okEnd := validation.Date("fecha_fin", f.End, v)
	if okStart && okEnd && start.After(end) {
		v.Add(validation.NonField, "period_order")
	}
	if !v.Empty() {
		return v
	}
	r.ClientID = clientID
	r.Client = nil
	r.Type = models.ReportType(f.Type)
	r.PeriodStart = start
	r.PeriodEnd = end
	return v
}
