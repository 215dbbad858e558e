package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oficont/oficont/internal/config"
	"github.com/oficont/oficont/internal/db"
	"github.com/oficont/oficont/internal/logging"
	"github.com/oficont/oficont/internal/services"
)

func newTestApp(t *testing.T) (*App, *services.UserService) {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(conn))
	require.NoError(t, db.Seed(conn))

	cfg := &config.Config{
		Server:  config.ServerConfig{BaseURL: "http://oficont.test"},
		App:     config.AppConfig{Dev: true},
		Auth:    config.AuthConfig{ResetTimeout: time.Hour},
		Storage: config.StorageConfig{UploadDir: t.TempDir(), MaxUploadMB: 1},
	}
	log := logging.New(logging.Config{Output: io.Discard})
	rc := NewRouterConfig(conn, cfg, log)
	return NewApp(rc, log), rc.Users
}

// login creates a user and returns the session cookie a real login sets.
func login(t *testing.T, app *App, users *services.UserService, email, profile string) *http.Cookie {
	t.Helper()
	_, err := users.Create(context.Background(), email, "", "secreto123", profile)
	require.NoError(t, err)

	form := url.Values{"email": {email}, "password": {"secreto123"}}
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard/", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sessionid" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

func get(app *App, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestDashboardRequiresLogin(t *testing.T) {
	app, _ := newTestApp(t)

	rec := get(app, "/dashboard/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/?next=%2Fdashboard%2F", rec.Header().Get("Location"))

	rec = get(app, "/media/comprobantes/x.pdf", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRootRedirects(t *testing.T) {
	app, users := newTestApp(t)

	rec := get(app, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/", rec.Header().Get("Location"))

	cookie := login(t, app, users, "contador@oficont.gt", "contador")
	rec = get(app, "/", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard/", rec.Header().Get("Location"))
}

func TestLoggedInPages(t *testing.T) {
	app, users := newTestApp(t)
	cookie := login(t, app, users, "contador@oficont.gt", "contador")

	for _, path := range []string{
		"/dashboard/",
		"/dashboard/clientes/",
		"/dashboard/clientes/nuevo/",
		"/dashboard/transacciones/",
		"/dashboard/transacciones/nueva/",
		"/dashboard/reportes/",
		"/dashboard/reportes/generar/",
		"/dashboard/configuracion/",
	} {
		rec := get(app, path, cookie)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get(logging.RequestIDHeader), path)
	}

	rec := get(app, "/dashboard/clientes/999/", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	app, users := newTestApp(t)
	cookie := login(t, app, users, "contador@oficont.gt", "contador")

	rec := get(app, "/logout/", cookie)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, "sessionid", c.Name, "GET must not touch the session")
	}
	rec = get(app, "/dashboard/", cookie)
	require.Equal(t, http.StatusOK, rec.Code, "session survives a GET to /logout/")

	req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		cleared = cleared || (c.Name == "sessionid" && c.MaxAge < 0)
	}
	assert.True(t, cleared)
}

func TestAdminRoutes(t *testing.T) {
	app, users := newTestApp(t)
	contador := login(t, app, users, "contador@oficont.gt", "contador")
	plain := login(t, app, users, "sinperfil@oficont.gt", "")

	rec := get(app, "/admin/", plain)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = get(app, "/admin/", contador)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(app, "/admin/categorias/", contador)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Positive(t, body.Count, "seeded categories are listed")

	rec = get(app, "/admin/usuarios/", contador)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/configuracion/1/delete/", nil)
	req.AddCookie(contador)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthStaticAndFallback(t *testing.T) {
	app, _ := newTestApp(t)

	rec := get(app, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(app, "/static/app.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(app, "/no-existe/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
}
