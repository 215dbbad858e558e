package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oficont/oficont/i18n"
	"github.com/oficont/oficont/internal/forms"
	"github.com/oficont/oficont/internal/middleware"
	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/validation"
)

const clientsPath = "/dashboard/clientes/"

type ClientHandler struct {
	clients *services.ClientService
}

func NewClientHandler(clients *services.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "clients_list.html", map[string]any{"Clients": clients})
}

func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		NotFound(w, r)
		return
	}
	d, err := h.clients.Detail(r.Context(), id)
	if err != nil {
		lookupFailed(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "client_detail.html", map[string]any{"Detail": d})
}

func (h *ClientHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, forms.NewClientForm(), nil, i18n.T(middleware.LangFrom(r), "title.new_client"), clientsPath)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := forms.ClientFormFromValues(r.PostForm)
	title := i18n.T(middleware.LangFrom(r), "title.new_client")
	v := form.Validate()
	if v.Empty() {
		var c models.Client
		form.Apply(&c)
		if err := h.saveFailed(w, r, h.clients.Create(r.Context(), &c), v); err != nil {
			return
		}
		if v.Empty() {
			middleware.Flash(w, middleware.FlashSuccess, "client_created")
			http.Redirect(w, r, clientsPath, http.StatusFound)
			return
		}
	}
	h.renderForm(w, r, form, v, title, clientsPath)
}

func (h *ClientHandler) Edit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, forms.ClientFormFromModel(c), nil, h.editTitle(r, c), detailPath(c.ID))
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	title := h.editTitle(r, c)
	form := forms.ClientFormFromValues(r.PostForm)
	v := form.Validate()
	if v.Empty() {
		form.Apply(c)
		if err := h.saveFailed(w, r, h.clients.Update(r.Context(), c), v); err != nil {
			return
		}
		if v.Empty() {
			middleware.Flash(w, middleware.FlashSuccess, "client_updated")
			http.Redirect(w, r, detailPath(c.ID), http.StatusFound)
			return
		}
	}
	h.renderForm(w, r, form, v, title, detailPath(c.ID))
}

// saveFailed records a duplicate tax ID as a field violation. Any other error is
// answered with a 500 and returned.
func (h *ClientHandler) saveFailed(w http.ResponseWriter, r *http.Request, err error, v validation.Violations) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrTaxIDTaken):
		v.Add("nit", "tax_id_taken")
		return nil
	default:
		serverError(w, r, err)
		return err
	}
}

func (h *ClientHandler) load(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	id, ok := idParam(r)
	if !ok {
		NotFound(w, r)
		return nil, false
	}
	c, err := h.clients.Get(r.Context(), id)
	if err != nil {
		lookupFailed(w, r, err)
		return nil, false
	}
	return c, true
}

func (h *ClientHandler) editTitle(r *http.Request, c *models.Client) string {
	return i18n.T(middleware.LangFrom(r), "title.edit_client") + ": " + c.Name
}

func (h *ClientHandler) renderForm(w http.ResponseWriter, r *http.Request, form forms.ClientForm, v validation.Violations, title, cancel string) {
	if v == nil {
		v = validation.Violations{}
	}
	render(w, r, http.StatusOK, "client_form.html", map[string]any{
		"Form":        form,
		"Errors":      v,
		"Title":       title,
		"ClientTypes": models.ClientTypes,
		"CancelURL":   cancel,
	})
}

func detailPath(id uint) string {
	return fmt.Sprintf("%s%d/", clientsPath, id)
}
