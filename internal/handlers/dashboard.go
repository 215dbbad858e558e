package handlers

import (
	"net/http"
	"time"

	"github.com/oficont/oficont/internal/services"
)

type DashboardHandler struct {
	summary *services.DashboardService
	now     func() time.Time
}

func NewDashboardHandler(summary *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{summary: summary, now: time.Now}
}

func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	s, err := h.summary.Summary(r.Context(), h.now())
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "dashboard.html", map[string]any{"Summary": s})
}
