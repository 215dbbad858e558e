package handlers

import (
	"net/http"

	"github.com/oficont/oficont/internal/forms"
	"github.com/oficont/oficont/internal/logging"
	"github.com/oficont/oficont/internal/middleware"
	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/internal/storage"
	"github.com/oficont/oficont/validation"
)

const reportsPath = "/dashboard/reportes/"

type ReportHandler struct {
	reports   *services.ReportService
	clients   *services.ClientService
	files     *storage.Files
	maxUpload int64
}

func NewReportHandler(reports *services.ReportService, clients *services.ClientService, files *storage.Files, maxUpload int64) *ReportHandler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &ReportHandler{reports: reports, clients: clients, files: files, maxUpload: maxUpload}
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "reports_list.html", map[string]any{"Reports": reports})
}

func (h *ReportHandler) New(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.Active(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.renderForm(w, r, forms.ReportForm{}, clients, nil)
}

// Generate records the report request. Nothing is stored unless every field is valid.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	vals, err := formValues(w, r, h.maxUpload)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	clients, err := h.clients.Active(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	form := forms.ReportFormFromValues(vals)
	var rep models.Report
	v := form.Bind(&rep, clients)
	if v.Empty() {
		path, err := storeUpload(r, h.files, "archivo_pdf", storage.ReportsDir)
		if err != nil {
			logging.FromContext(r.Context()).Error("store report file failed", "error", err)
			v.Add("archivo_pdf", "upload_failed")
		} else {
			rep.FilePath = path
			if err := h.reports.Generate(r.Context(), &rep, currentUser(r)); err != nil {
				serverError(w, r, err)
				return
			}
			middleware.Flash(w, middleware.FlashSuccess, "report_generated")
			http.Redirect(w, r, reportsPath, http.StatusFound)
			return
		}
	}
	h.renderForm(w, r, form, clients, v)
}

func (h *ReportHandler) renderForm(w http.ResponseWriter, r *http.Request, form forms.ReportForm, clients []models.Client, v validation.Violations) {
	if v == nil {
		v = validation.Violations{}
	}
	render(w, r, http.StatusOK, "report_form.html", map[string]any{
		"Form":        form,
		"Errors":      v,
		"Clients":     clients,
		"ReportTypes": models.ReportTypes,
	})
}
