package handlers

import (
	"net/http"

	"github.com/oficont/oficont/internal/forms"
	"github.com/oficont/oficont/internal/middleware"
	"github.com/oficont/oficont/internal/services"
)

const configPath = "/dashboard/configuracion/"

// ConfigHandler edits the office contact details. Currency and date format are
// only editable through /admin.
type ConfigHandler struct {
	configs *services.ConfigService
}

func NewConfigHandler(configs *services.ConfigService) *ConfigHandler {
	return &ConfigHandler{configs: configs}
}

func (h *ConfigHandler) Show(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configs.GetOrCreate(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "config.html", map[string]any{"Config": cfg})
}

func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	u, v := forms.ContactUpdateFromValues(r.PostForm)
	if !v.Empty() {
		cfg, err := h.configs.GetOrCreate(r.Context())
		if err != nil {
			serverError(w, r, err)
			return
		}
		shown := *cfg
		if u.OfficeName != nil {
			shown.OfficeName = *u.OfficeName
		}
		if u.OfficeAddress != nil {
			shown.OfficeAddress = *u.OfficeAddress
		}
		if u.OfficePhone != nil {
			shown.OfficePhone = *u.OfficePhone
		}
		if u.OfficeEmail != nil {
			shown.OfficeEmail = *u.OfficeEmail
		}
		render(w, r, http.StatusOK, "config.html", map[string]any{"Config": shown, "Errors": v})
		return
	}
	if _, err := h.configs.UpdateContact(r.Context(), u); err != nil {
		serverError(w, r, err)
		return
	}
	middleware.Flash(w, middleware.FlashSuccess, "config_updated")
	http.Redirect(w, r, configPath, http.StatusFound)
}
