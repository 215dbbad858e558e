package main

import (
	"net/http"

	"github.com/oficont/oficont/auth"
	"github.com/oficont/oficont/internal/handlers"
	"github.com/oficont/oficont/internal/logging"
	"github.com/oficont/oficont/internal/middleware"
	"github.com/oficont/oficont/view"
	"github.com/oficont/oficont/web"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	rc      *RouterConfig
}

// NewApp registers every route and wraps the mux in the middleware chain.
func NewApp(rc *RouterConfig, log *logging.Logger) *App {
	auth.SetUserVerifier(rc.Users.IsActive)
	view.SetDev(rc.Dev)
	view.SetStaffResolver(func(r *http.Request) bool {
		return rc.AuthGate.IsStaff(r.Context())
	})

	a := &App{mux: http.NewServeMux(), rc: rc}
	a.routes()

	var h http.Handler = a.mux
	h = auth.Middleware(h)
	h = middleware.Prefs(h)
	h = logging.Recover(h)
	h = logging.Middleware(log)(h)
	a.handler = h
	return a
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) routes() {
	rc := a.rc

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	ah := rc.AuthHandler
	a.mux.HandleFunc("GET /{$}", ah.Root)
	a.mux.HandleFunc("/login/{$}", ah.Login)
	a.mux.HandleFunc("POST /logout/{$}", ah.Logout)
	a.mux.HandleFunc("/logout/{$}", handlers.MethodNotAllowed(http.MethodPost))

	pr := rc.PasswordResetHandler
	a.mux.HandleFunc("/password_reset/{$}", pr.Request)
	a.mux.HandleFunc("GET /password_reset/done/{$}", pr.Done)
	a.mux.HandleFunc("/password_reset/confirm/{uid}/{token}/{$}", pr.Confirm)
	a.mux.HandleFunc("GET /password_reset/complete/{$}", pr.Complete)

	a.mux.HandleFunc("GET /healthz", handlers.Health(rc.Conn))
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	// ─────────────────────────────────────────────────────────────────────────
	// Dashboard (session required)
	// ─────────────────────────────────────────────────────────────────────────
	a.page("GET /dashboard/{$}", rc.DashboardHandler.Home)

	ch := rc.ClientHandler
	a.page("GET /dashboard/clientes/{$}", ch.List)
	a.page("GET /dashboard/clientes/nuevo/{$}", ch.New)
	a.page("POST /dashboard/clientes/nuevo/{$}", ch.Create)
	a.page("GET /dashboard/clientes/{id}/{$}", ch.View)
	a.page("GET /dashboard/clientes/{id}/editar/{$}", ch.Edit)
	a.page("POST /dashboard/clientes/{id}/editar/{$}", ch.Update)

	th := rc.TransactionHandler
	a.page("GET /dashboard/transacciones/{$}", th.List)
	a.page("GET /dashboard/transacciones/nueva/{$}", th.New)
	a.page("POST /dashboard/transacciones/nueva/{$}", th.Create)
	a.page("GET /dashboard/transacciones/{id}/editar/{$}", th.Edit)
	a.page("POST /dashboard/transacciones/{id}/editar/{$}", th.Update)

	rh := rc.ReportHandler
	a.page("GET /dashboard/reportes/{$}", rh.List)
	a.page("GET /dashboard/reportes/generar/{$}", rh.New)
	a.page("POST /dashboard/reportes/generar/{$}", rh.Generate)

	cfh := rc.ConfigHandler
	a.page("GET /dashboard/configuracion/{$}", cfh.Show)
	a.page("POST /dashboard/configuracion/{$}", cfh.Update)

	a.mux.Handle("GET /media/{path...}", auth.RequireAuth(rc.Files))

	// ─────────────────────────────────────────────────────────────────────────
	// Admin (staff profile, per-resource permissions checked by the handler)
	// ─────────────────────────────────────────────────────────────────────────
	adm := rc.AdminHandler
	a.mux.Handle("GET /admin/{$}", auth.RequireAuth(rc.AuthGate.RequireStaff(http.HandlerFunc(adm.Index))))
	a.admin("GET /admin/{resource}/{$}", adm.List)
	a.admin("POST /admin/{resource}/{$}", adm.Create)
	a.admin("GET /admin/{resource}/{id}/{$}", adm.Get)
	a.admin("POST /admin/{resource}/{id}/{$}", adm.Update)
	a.admin("POST /admin/{resource}/{id}/delete/{$}", adm.Delete)

	a.mux.HandleFunc("/", handlers.NotFound)
}

// page registers a dashboard route behind the session check.
func (a *App) page(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, auth.RequireAuth(h))
}

func (a *App) admin(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, auth.RequireAuth(a.rc.AuthGate.RequireStaff(h)))
}
