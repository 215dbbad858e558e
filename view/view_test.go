package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/oficont/oficont/auth"
	"github.com/oficont/oficont/i18n"
	"github.com/oficont/oficont/validation"
	"github.com/oficont/oficont/web"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":           "0.00",
		"5.5":         "5.50",
		"1234.5":      "1,234.50",
		"1234567.891": "1,234,567.89",
		"-98765.4":    "-98,765.40",
		"100":         "100.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Money(decimal.RequireFromString(in)), in)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "05/03/2024", FormatDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestRender_LoginShowsFlashAndErrors(t *testing.T) {
	ResetForTests()
	r := httptest.NewRequest(http.MethodGet, "/login/", nil)
	r.AddCookie(&http.Cookie{Name: "flash", Value: "success%3Alogged_out"})
	rec := httptest.NewRecorder()

	err := Render(rec, r, "login.html", map[string]any{
		"Errors": validation.Violations{validation.NonField: "invalid_credentials"},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Ha cerrado sesión correctamente.")
	assert.Contains(t, body, "Correo electrónico o contraseña incorrectos.")
	assert.NotContains(t, body, `action="/logout/"`)
}

func TestRender_UsesRequestLanguage(t *testing.T) {
	ResetForTests()
	r := httptest.NewRequest(http.MethodGet, "/login/", nil)
	r = r.WithContext(i18n.WithLang(r.Context(), "en"))
	rec := httptest.NewRecorder()
	require.NoError(t, Render(rec, r, "login.html", nil))
	assert.Contains(t, rec.Body.String(), "Forgot your password?")

	// The cached template must not keep the first request's language.
	r = httptest.NewRequest(http.MethodGet, "/login/", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, Render(rec, r, "login.html", nil))
	assert.Contains(t, rec.Body.String(), "¿Olvidó su contraseña?")
}

func TestRender_NavForLoggedInUsers(t *testing.T) {
	ResetForTests()
	SetStaffResolver(func(*http.Request) bool { return true })
	defer SetStaffResolver(func(*http.Request) bool { return false })

	r := httptest.NewRequest(http.MethodGet, "/dashboard/configuracion/", nil)
	r = r.WithContext(auth.WithUserID(r.Context(), 7))
	rec := httptest.NewRecorder()
	require.NoError(t, RenderStatus(rec, r, http.StatusTeapot, "logged_out.html", map[string]any{"IsLoggedIn": true}))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/logout/"`)
	assert.Contains(t, rec.Body.String(), `href="/admin/"`)
}

func TestRender_TemplateErrorWritesNothing(t *testing.T) {
	SetFS(fstest.MapFS{
		"layout.html": {Data: []byte(`{{template "content" .}}`)},
		"broken.html": {Data: []byte(`{{define "content"}}{{.Missing.Field}}{{end}}`)},
	})
	defer SetFS(web.Templates())

	rec := httptest.NewRecorder()
	err := Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), "broken.html", map[string]any{"Missing": 3})
	require.Error(t, err)
	assert.Empty(t, strings.TrimSpace(rec.Body.String()))
}
