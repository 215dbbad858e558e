package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oficont/oficont/httpx"
	"github.com/oficont/oficont/internal/forms"
	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/internal/policy"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/internal/storage"
	"github.com/oficont/oficont/validation"
)

// adminRequest is what a resource operation sees of the request.
type adminRequest struct {
	r      *http.Request
	vals   url.Values
	userID uint
}

func (a adminRequest) ctx() context.Context { return a.r.Context() }

// adminResource exposes one model under /admin/{slug}/. Operations return either a
// result, validation violations, or an error.
type adminResource struct {
	slug       string
	permission string
	label      string
	list       func(ctx context.Context, q url.Values) (any, int, validation.Violations, error)
	get        func(ctx context.Context, id uint) (any, error)
	create     func(a adminRequest) (any, validation.Violations, error)
	update     func(a adminRequest, id uint) (any, validation.Violations, error)
	remove     func(ctx context.Context, id uint) error
}

// AdminHandler is the staff back office. Each resource checks its own permission so an
// unknown resource is a 404 before any permission question arises.
type AdminHandler struct {
	gate      *policy.AuthGate
	resources map[string]*adminResource
	order     []string
	maxUpload int64
}

// AdminServices are the services the back office operates on.
type AdminServices struct {
	Clients      *services.ClientService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Reports      *services.ReportService
	Configs      *services.ConfigService
	Files        *storage.Files
}

func NewAdminHandler(gate *policy.AuthGate, svc AdminServices, maxUpload int64) *AdminHandler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	h := &AdminHandler{gate: gate, resources: map[string]*adminResource{}, maxUpload: maxUpload}
	for _, res := range []*adminResource{
		clientResource(svc.Clients),
		categoryResource(svc.Categories),
		transactionResource(svc.Transactions, svc.Clients, svc.Categories, svc.Files),
		reportResource(svc.Reports, svc.Clients, svc.Files),
		configResource(svc.Configs),
	} {
		h.resources[res.slug] = res
		h.order = append(h.order, res.slug)
	}
	return h
}

type adminIndexEntry struct {
	Slug  string
	Label string
	Count int
}

// Index lists the resources the user may browse with their record counts.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	var entries []adminIndexEntry
	for _, slug := range h.order {
		res := h.resources[slug]
		if !h.gate.Can(r.Context(), res.permission, policy.ActionList) {
			continue
		}
		_, n, _, err := res.list(r.Context(), url.Values{})
		if err != nil {
			serverError(w, r, err)
			return
		}
		entries = append(entries, adminIndexEntry{Slug: slug, Label: res.label, Count: n})
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"resources": entries})
		return
	}
	render(w, r, http.StatusOK, "admin_index.html", map[string]any{"Resources": entries})
}

// resource resolves {resource} and checks action on it, answering 404 or 403 itself.
func (h *AdminHandler) resource(w http.ResponseWriter, r *http.Request, action policy.Action) (*adminResource, bool) {
	res, ok := h.resources[r.PathValue("resource")]
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	if !h.gate.Can(r.Context(), res.permission, action) {
		policy.Forbidden(w, r)
		return nil, false
	}
	return res, true
}

func adminID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	}
	return id, ok
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r, policy.ActionList)
	if !ok {
		return
	}
	items, n, v, err := res.list(r.Context(), r.URL.Query())
	h.respond(w, r, http.StatusOK, map[string]any{"count": n, "results": items}, v, err)
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r, policy.ActionView)
	if !ok {
		return
	}
	id, ok := adminID(w, r)
	if !ok {
		return
	}
	item, err := res.get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r, policy.ActionCreate)
	if !ok {
		return
	}
	a, ok := h.read(w, r)
	if !ok {
		return
	}
	item, v, err := res.create(a)
	h.respond(w, r, http.StatusCreated, item, v, err)
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	id, ok := adminID(w, r)
	if !ok {
		return
	}
	a, ok := h.read(w, r)
	if !ok {
		return
	}
	item, v, err := res.update(a, id)
	h.respond(w, r, http.StatusOK, item, v, err)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r, policy.ActionDelete)
	if !ok {
		return
	}
	id, ok := adminID(w, r)
	if !ok {
		return
	}
	if err := res.remove(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) read(w http.ResponseWriter, r *http.Request) (adminRequest, bool) {
	vals, err := formValues(w, r, h.maxUpload)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return adminRequest{}, false
	}
	return adminRequest{r: r, vals: vals, userID: currentUser(r)}, true
}

func (h *AdminHandler) respond(w http.ResponseWriter, r *http.Request, status int, item any, v validation.Violations, err error) {
	switch {
	case err != nil:
		h.fail(w, r, err)
	case !v.Empty():
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
	default:
		httpx.JSON(w, status, item)
	}
}

// fail maps service errors onto status codes.
func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrConfigExists):
		httpx.JSONError(w, http.StatusForbidden, services.ErrConfigExists.Error(), nil)
	case errors.Is(err, services.ErrConfigProtected):
		httpx.JSONError(w, http.StatusForbidden, services.ErrConfigProtected.Error(), nil)
	default:
		serverError(w, r, err)
	}
}

func optionalID(q url.Values, name string) uint {
	id, err := strconv.ParseUint(q.Get(name), 10, 0)
	if err != nil {
		return 0
	}
	return uint(id)
}

// dateFilter reads the admin date lookups on field: field (that day), field__gte,
// field__lt and field__lte. Malformed dates are recorded in v.
func dateFilter(q url.Values, field string, v validation.Violations) services.DateRange {
	var d services.DateRange
	parse := func(key string) (time.Time, bool) {
		raw := q.Get(key)
		if raw == "" {
			return time.Time{}, false
		}
		return validation.Date(key, raw, v)
	}
	if day, ok := parse(field); ok {
		d.From, d.Until = day, day.AddDate(0, 0, 1)
	}
	if from, ok := parse(field + "__gte"); ok {
		d.From = from
	}
	if until, ok := parse(field + "__lt"); ok {
		d.Until = until
	}
	if last, ok := parse(field + "__lte"); ok {
		d.Until = last.AddDate(0, 0, 1)
	}
	return d
}

func clientResource(clients *services.ClientService) *adminResource {
	save := func(ctx context.Context, c *models.Client, form forms.ClientForm, create bool) (any, validation.Violations, error) {
		v := form.Validate()
		if !v.Empty() {
			return nil, v, nil
		}
		form.Apply(c)
		var err error
		if create {
			err = clients.Create(ctx, c)
		} else {
			err = clients.Update(ctx, c)
		}
		if errors.Is(err, services.ErrTaxIDTaken) {
			return nil, validation.Violations{"nit": "tax_id_taken"}, nil
		}
		return c, nil, err
	}
	return &adminResource{
		slug:       "clientes",
		permission: "client",
		label:      "nav.clients",
		list: func(ctx context.Context, q url.Values) (any, int, validation.Violations, error) {
			v := validation.Violations{}
			query := services.ClientQuery{
				Search:     q.Get("q"),
				Type:       q.Get("tipo_cliente"),
				Registered: dateFilter(q, "fecha_registro", v),
			}
			if s := q.Get("activo"); s != "" {
				active, err := strconv.ParseBool(s)
				if err == nil {
					query.Active = &active
				}
			}
			if !v.Empty() {
				return nil, 0, v, nil
			}
			items, err := clients.Search(ctx, query)
			return items, len(items), nil, err
		},
		get: func(ctx context.Context, id uint) (any, error) { return clients.Get(ctx, id) },
		create: func(a adminRequest) (any, validation.Violations, error) {
			return save(a.ctx(), &models.Client{}, forms.ClientFormFromValues(a.vals), true)
		},
		update: func(a adminRequest, id uint) (any, validation.Violations, error) {
			c, err := clients.Get(a.ctx(), id)
			if err != nil {
				return nil, nil, err
			}
			return save(a.ctx(), c, forms.ClientFormFromValues(a.vals), false)
		},
		remove: clients.Delete,
	}
}

func categoryResource(categories *services.CategoryService) *adminResource {
	return &adminResource{
		slug:       "categorias",
		permission: "category",
		label:      "nav.categories",
		list: func(ctx context.Context, q url.Values) (any, int, validation.Violations, error) {
			items, err := categories.Search(ctx, q.Get("q"), q.Get("tipo"))
			return items, len(items), nil, err
		},
		get: func(ctx context.Context, id uint) (any, error) { return categories.Get(ctx, id) },
		create: func(a adminRequest) (any, validation.Violations, error) {
			form := forms.CategoryFormFromValues(a.vals)
			if v := form.Validate(); !v.Empty() {
				return nil, v, nil
			}
			var c models.Category
			form.Apply(&c)
			return &c, nil, categories.Create(a.ctx(), &c)
		},
		update: func(a adminRequest, id uint) (any, validation.Violations, error) {
			c, err := categories.Get(a.ctx(), id)
			if err != nil {
				return nil, nil, err
			}
			form := forms.CategoryFormFromValues(a.vals)
			if v := form.Validate(); !v.Empty() {
				return nil, v, nil
			}
			form.Apply(c)
			return c, nil, categories.Update(a.ctx(), c)
		},
		remove: categories.Delete,
	}
}

// transactionResource offers every client and category, as the back office is not
// limited to active clients or type-matched categories.
func transactionResource(
	transactions *services.TransactionService,
	clients *services.ClientService,
	categories *services.CategoryService,
	files *storage.Files,
) *adminResource {
	choices := func(ctx context.Context) (forms.TransactionChoices, error) {
		cl, err := clients.List(ctx)
		if err != nil {
			return forms.TransactionChoices{}, err
		}
		cats, err := categories.List(ctx)
		if err != nil {
			return forms.TransactionChoices{}, err
		}
		return forms.TransactionChoices{Clients: cl, Categories: cats}, nil
	}
	bind := func(a adminRequest, t *models.Transaction) (validation.Violations, error) {
		ch, err := choices(a.ctx())
		if err != nil {
			return nil, err
		}
		if v := forms.TransactionFormFromValues(a.vals).Bind(t, ch); !v.Empty() {
			return v, nil
		}
		path, err := storeUpload(a.r, files, "comprobante", storage.ReceiptsDir)
		if err != nil {
			return nil, err
		}
		if path != "" {
			t.ReceiptPath = path
		}
		return nil, nil
	}
	return &adminResource{
		slug:       "transacciones",
		permission: "transaction",
		label:      "nav.transactions",
		list: func(ctx context.Context, q url.Values) (any, int, validation.Violations, error) {
			v := validation.Violations{}
			f := services.TransactionFilter{
				CategoryID: optionalID(q, "categoria"),
				Type:       q.Get("tipo_transaccion"),
				Status:     q.Get("estado"),
				Search:     q.Get("q"),
				Date:       dateFilter(q, "fecha_transaccion", v),
			}
			if !v.Empty() {
				return nil, 0, v, nil
			}
			items, err := transactions.List(ctx, f)
			return items, len(items), nil, err
		},
		get: func(ctx context.Context, id uint) (any, error) { return transactions.Get(ctx, id) },
		create: func(a adminRequest) (any, validation.Violations, error) {
			var t models.Transaction
			if v, err := bind(a, &t); err != nil || v != nil {
				return nil, v, err
			}
			return &t, nil, transactions.Create(a.ctx(), &t, a.userID)
		},
		update: func(a adminRequest, id uint) (any, validation.Violations, error) {
			t, err := transactions.Get(a.ctx(), id)
			if err != nil {
				return nil, nil, err
			}
			oldReceipt := t.ReceiptPath
			if v, err := bind(a, t); err != nil || v != nil {
				return nil, v, err
			}
			if err := transactions.Update(a.ctx(), t); err != nil {
				return nil, nil, err
			}
			removeReplaced(a.r, files, oldReceipt, t.ReceiptPath)
			return t, nil, nil
		},
		remove: transactions.Delete,
	}
}

func reportResource(reports *services.ReportService, clients *services.ClientService, files *storage.Files) *adminResource {
	bind := func(a adminRequest, rep *models.Report) (validation.Violations, error) {
		cl, err := clients.List(a.ctx())
		if err != nil {
			return nil, err
		}
		if v := forms.ReportFormFromValues(a.vals).Bind(rep, cl); !v.Empty() {
			return v, nil
		}
		path, err := storeUpload(a.r, files, "archivo_pdf", storage.ReportsDir)
		if err != nil {
			return nil, err
		}
		if path != "" {
			rep.FilePath = path
		}
		return nil, nil
	}
	return &adminResource{
		slug:       "reportes",
		permission: "report",
		label:      "nav.reports",
		list: func(ctx context.Context, q url.Values) (any, int, validation.Violations, error) {
			v := validation.Violations{}
			f := services.ReportFilter{
				Type:      q.Get("tipo_reporte"),
				Search:    q.Get("q"),
				Generated: dateFilter(q, "fecha_generado", v),
			}
			if !v.Empty() {
				return nil, 0, v, nil
			}
			items, err := reports.Search(ctx, f)
			return items, len(items), nil, err
		},
		get: func(ctx context.Context, id uint) (any, error) { return reports.Get(ctx, id) },
		create: func(a adminRequest) (any, validation.Violations, error) {
			var rep models.Report
			if v, err := bind(a, &rep); err != nil || v != nil {
				return nil, v, err
			}
			return &rep, nil, reports.Generate(a.ctx(), &rep, a.userID)
		},
		update: func(a adminRequest, id uint) (any, validation.Violations, error) {
			rep, err := reports.Get(a.ctx(), id)
			if err != nil {
				return nil, nil, err
			}
			oldFile := rep.FilePath
			if v, err := bind(a, rep); err != nil || v != nil {
				return nil, v, err
			}
			if err := reports.Update(a.ctx(), rep); err != nil {
				return nil, nil, err
			}
			removeReplaced(a.r, files, oldFile, rep.FilePath)
			return rep, nil, nil
		},
		remove: reports.Delete,
	}
}

func configResource(configs *services.ConfigService) *adminResource {
	return &adminResource{
		slug:       "configuracion",
		permission: "config",
		label:      "nav.config",
		list: func(ctx context.Context, _ url.Values) (any, int, validation.Violations, error) {
			items, err := configs.List(ctx)
			return items, len(items), nil, err
		},
		get: func(ctx context.Context, id uint) (any, error) { return configs.Get(ctx, id) },
		create: func(a adminRequest) (any, validation.Violations, error) {
			form := forms.SystemConfigFormFromValues(a.vals, models.DefaultSystemConfig())
			if v := form.Validate(); !v.Empty() {
				return nil, v, nil
			}
			var cfg models.SystemConfig
			form.Apply(&cfg)
			if err := configs.Create(a.ctx(), &cfg); err != nil {
				return nil, nil, err
			}
			return &cfg, nil, nil
		},
		update: func(a adminRequest, id uint) (any, validation.Violations, error) {
			cfg, err := configs.Get(a.ctx(), id)
			if err != nil {
				return nil, nil, err
			}
			form := forms.SystemConfigFormFromValues(a.vals, *cfg)
			if v := form.Validate(); !v.Empty() {
				return nil, v, nil
			}
			form.Apply(cfg)
			return cfg, nil, configs.Update(a.ctx(), cfg)
		},
		remove: configs.Delete,
	}
}
