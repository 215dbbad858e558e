package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oficont/oficont/i18n"
	"github.com/oficont/oficont/internal/forms"
	"github.com/oficont/oficont/internal/logging"
	"github.com/oficont/oficont/internal/middleware"
	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/internal/storage"
	"github.com/oficont/oficont/validation"
)

const transactionsPath = "/dashboard/transacciones/"

type TransactionHandler struct {
	transactions *services.TransactionService
	clients      *services.ClientService
	categories   *services.CategoryService
	files        *storage.Files
	maxUpload    int64
}

func NewTransactionHandler(
	transactions *services.TransactionService,
	clients *services.ClientService,
	categories *services.CategoryService,
	files *storage.Files,
	maxUpload int64,
) *TransactionHandler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &TransactionHandler{
		transactions: transactions,
		clients:      clients,
		categories:   categories,
		files:        files,
		maxUpload:    maxUpload,
	}
}

// List shows transactions filtered by the cliente, tipo and estado query parameters.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := services.TransactionFilter{Type: q.Get("tipo"), Status: q.Get("estado")}
	if id, err := strconv.ParseUint(q.Get("cliente"), 10, 0); err == nil {
		f.ClientID = uint(id)
	}
	txs, err := h.transactions.List(r.Context(), f)
	if err != nil {
		serverError(w, r, err)
		return
	}
	clients, err := h.clients.Active(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "transactions_list.html", map[string]any{
		"Transactions": txs,
		"Clients":      clients,
		"Types":        models.TransactionTypes,
		"Statuses":     models.TransactionStatuses,
		"Filters": map[string]string{
			"cliente": q.Get("cliente"),
			"tipo":    f.Type,
			"estado":  f.Status,
		},
	})
}

// choices returns the active clients and the categories allowed for the type picked
// from data or, failing that, from existing.
func (h *TransactionHandler) choices(ctx context.Context, data url.Values, existing *models.Transaction) (forms.TransactionChoices, error) {
	clients, err := h.clients.Active(ctx)
	if err != nil {
		return forms.TransactionChoices{}, err
	}
	all, err := h.categories.List(ctx)
	if err != nil {
		return forms.TransactionChoices{}, err
	}
	return forms.TransactionChoices{
		Clients:    clients,
		Categories: forms.AllowedCategories(all, forms.CategoryFilterType(data, existing)),
	}, nil
}

func (h *TransactionHandler) New(w http.ResponseWriter, r *http.Request) {
	ch, err := h.choices(r.Context(), nil, nil)
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.renderForm(w, r, forms.NewTransactionForm(), ch, nil, nil, i18n.T(middleware.LangFrom(r), "title.new_transaction"))
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	vals, err := formValues(w, r, h.maxUpload)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ch, err := h.choices(r.Context(), vals, nil)
	if err != nil {
		serverError(w, r, err)
		return
	}
	form := forms.TransactionFormFromValues(vals)
	var t models.Transaction
	v := form.Bind(&t, ch)
	if v.Empty() && h.attachReceipt(r, &t, v) {
		if err := h.transactions.Create(r.Context(), &t, currentUser(r)); err != nil {
			serverError(w, r, err)
			return
		}
		middleware.Flash(w, middleware.FlashSuccess, "transaction_created")
		http.Redirect(w, r, transactionsPath, http.StatusFound)
		return
	}
	h.renderForm(w, r, form, ch, v, nil, i18n.T(middleware.LangFrom(r), "title.new_transaction"))
}

func (h *TransactionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r)
	if !ok {
		return
	}
	ch, err := h.choices(r.Context(), nil, t)
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.renderForm(w, r, forms.TransactionFormFromModel(t), ch, nil, t, h.editTitle(r, t))
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r)
	if !ok {
		return
	}
	vals, err := formValues(w, r, h.maxUpload)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ch, err := h.choices(r.Context(), vals, t)
	if err != nil {
		serverError(w, r, err)
		return
	}
	title := h.editTitle(r, t)
	oldReceipt := t.ReceiptPath
	form := forms.TransactionFormFromValues(vals)
	v := form.Bind(t, ch)
	if v.Empty() && h.attachReceipt(r, t, v) {
		if err := h.transactions.Update(r.Context(), t); err != nil {
			serverError(w, r, err)
			return
		}
		removeReplaced(r, h.files, oldReceipt, t.ReceiptPath)
		middleware.Flash(w, middleware.FlashSuccess, "transaction_updated")
		http.Redirect(w, r, transactionsPath, http.StatusFound)
		return
	}
	h.renderForm(w, r, form, ch, v, t, title)
}

// attachReceipt stores an uploaded comprobante and points t at it. Without an upload
// the stored path is kept. A storage failure is recorded in v.
func (h *TransactionHandler) attachReceipt(r *http.Request, t *models.Transaction, v validation.Violations) bool {
	path, err := storeUpload(r, h.files, "comprobante", storage.ReceiptsDir)
	if err != nil {
		logging.FromContext(r.Context()).Error("store receipt failed", "error", err)
		v.Add("comprobante", "upload_failed")
		return false
	}
	if path != "" {
		t.ReceiptPath = path
	}
	return true
}

func (h *TransactionHandler) load(w http.ResponseWriter, r *http.Request) (*models.Transaction, bool) {
	id, ok := idParam(r)
	if !ok {
		NotFound(w, r)
		return nil, false
	}
	t, err := h.transactions.Get(r.Context(), id)
	if err != nil {
		lookupFailed(w, r, err)
		return nil, false
	}
	return t, true
}

func (h *TransactionHandler) editTitle(r *http.Request, t *models.Transaction) string {
	title := i18n.T(middleware.LangFrom(r), "title.edit_tx")
	if t.Client != nil {
		title += ": " + t.Client.Name
	}
	return title
}

func (h *TransactionHandler) renderForm(
	w http.ResponseWriter, r *http.Request,
	form forms.TransactionForm, ch forms.TransactionChoices, v validation.Violations,
	existing *models.Transaction, title string,
) {
	if v == nil {
		v = validation.Violations{}
	}
	render(w, r, http.StatusOK, "transaction_form.html", map[string]any{
		"Form":        form,
		"Errors":      v,
		"Title":       title,
		"Clients":     ch.Clients,
		"Categories":  ch.Categories,
		"Types":       models.TransactionTypes,
		"Statuses":    models.TransactionStatuses,
		"Transaction": existing,
	})
}
