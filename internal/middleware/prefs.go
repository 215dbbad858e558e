// Package middleware holds request preferences and one-shot flash messages.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/oficont/oficont/i18n"
)

const (
	langCookie  = "lang"
	flashCookie = "flash"
)

// Prefs picks the language (query > cookie > Accept-Language) and stores it in the context.
// A query-provided language is persisted in a cookie for 30 days.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie(langCookie); err == nil {
			lang = c.Value
		}
		if ql := r.URL.Query().Get("lang"); ql != "" && i18n.Supported(ql) {
			lang = ql
			http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/", MaxAge: 86400 * 30, SameSite: http.SameSiteLaxMode})
		}
		if !i18n.Supported(lang) {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

// LangFrom returns the request language.
func LangFrom(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// FlashMessage is a translated message waiting to be shown once.
type FlashMessage struct {
	Kind string
	Text string
}

// Flash queues a message code for the next rendered page. It is translated when shown.
func Flash(w http.ResponseWriter, kind, code string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + ":" + code),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the queued message, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) *FlashMessage {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	kind, code, ok := strings.Cut(raw, ":")
	if !ok {
		kind, code = FlashSuccess, raw
	}
	if kind != FlashError {
		kind = FlashSuccess
	}
	return &FlashMessage{Kind: kind, Text: i18n.T(LangFrom(r), code)}
}
