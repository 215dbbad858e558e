package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func langOf(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var got string
	h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = LangFrom(r) }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return got, rec
}

func TestPrefs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got, _ := langOf(t, req)
	assert.Equal(t, "es", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	got, _ = langOf(t, req)
	assert.Equal(t, "en", got)

	req = httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	got, rec := langOf(t, req)
	assert.Equal(t, "en", got)
	require.Len(t, rec.Result().Cookies(), 1)

	req = httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
	got, _ = langOf(t, req)
	assert.Equal(t, "en", got, "unsupported query value ignored")
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	Flash(rec, FlashSuccess, "client_created")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/clientes/", nil)
	req.AddCookie(cookies[0])
	var msg *FlashMessage
	h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { msg = PopFlash(w, r) }))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, msg)
	assert.Equal(t, FlashSuccess, msg.Kind)
	assert.Equal(t, "Cliente creado exitosamente.", msg.Text)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	assert.Nil(t, PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}
