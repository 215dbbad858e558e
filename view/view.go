// Package view renders the embedded HTML templates with shared helpers.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oficont/oficont/auth"
	"github.com/oficont/oficont/i18n"
	"github.com/oficont/oficont/internal/middleware"
	"github.com/oficont/oficont/validation"
	"github.com/oficont/oficont/web"
	"github.com/shopspring/decimal"
)

var (
	fsys     fs.FS = web.Templates()
	tplCache       = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
	devMode bool

	staffResolver = func(*http.Request) bool { return false }
)

// SetFS replaces the template tree, e.g. with os.DirFS("web/templates") while editing templates.
func SetFS(f fs.FS) {
	if f != nil {
		fsys = f
		ResetForTests()
	}
}

// SetDev disables the template cache so edits show up on reload.
func SetDev(dev bool) { devMode = dev }

// SetStaffResolver lets the host app tell templates whether to show the admin link.
func SetStaffResolver(f func(*http.Request) bool) {
	if f != nil {
		staffResolver = f
	}
}

// Funcs returns the template helpers bound to the request language.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	if r != nil {
		lang = middleware.LangFrom(r)
	}
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"isStaff": func() bool {
			return r != nil && staffResolver(r)
		},
		"year":     func() int { return time.Now().Year() },
		"money":    Money,
		"date":     FormatDate,
		"datetime": func(t time.Time) string { return t.Local().Format("02/01/2006 15:04") },
		"monthName": func(m time.Month) string {
			return i18n.T(lang, "month."+strings.ToLower(m.String()))
		},
		// fieldErr returns the translated violation for field, or "".
		"fieldErr": func(v validation.Violations, field string) string {
			if code, ok := v[field]; ok {
				return i18n.T(lang, code)
			}
			return ""
		},
		"formErr": func(v validation.Violations) string {
			if code, ok := v[validation.NonField]; ok {
				return i18n.T(lang, code)
			}
			return ""
		},
		// same compares values of different types by their printed form, e.g. a uint id and a form string.
		"same": func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) },
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// Money formats d with two decimals and comma thousands separators.
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatDate renders a date as DD/MM/YYYY; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// ResetForTests clears the parsed template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

func parse(name string) (*template.Template, error) {
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}
	patterns := []string{"layout.html", name}
	if matches, _ := fs.Glob(fsys, "partials/*.html"); len(matches) > 0 {
		patterns = append(patterns, "partials/*.html")
	}
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes the named page inside the layout with status 200.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus executes the named page inside the layout. Output is buffered so a template
// error never produces a half-written page.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	base, err := parse(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))

	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["IsLoggedIn"]; !ok {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	if _, ok := data["Flash"]; !ok {
		if f := middleware.PopFlash(w, r); f != nil {
			data["Flash"] = f
		}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = validation.Violations{}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
