package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sessionCookie(t *testing.T, uid uint) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	CreateSession(rr, uid)
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestSessionRoundTrip(t *testing.T) {
	c := sessionCookie(t, 42)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	uid, ok := ParseSession(r)
	if !ok || uid != 42 {
		t.Fatalf("expected uid 42, got %d ok=%v", uid, ok)
	}
}

func TestSessionTampered(t *testing.T) {
	c := sessionCookie(t, 42)
	c.Value = "1" + c.Value[strings.Index(c.Value, "."):]
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	if _, ok := ParseSession(r); ok {
		t.Fatalf("tampered cookie must be rejected")
	}
}

func TestMiddlewareHonoursVerifier(t *testing.T) {
	SetUserVerifier(func(_ context.Context, uid uint) bool { return uid == 7 })
	t.Cleanup(func() { SetUserVerifier(nil) })

	var seen uint
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(sessionCookie(t, 7))
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != 7 {
		t.Fatalf("expected verified user 7, got %d", seen)
	}

	seen = 0
	rr := httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(sessionCookie(t, 8))
	h.ServeHTTP(rr, r)
	if seen != 0 {
		t.Fatalf("rejected user must not reach context")
	}
	if !strings.Contains(rr.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expected session cookie to be cleared, got %q", rr.Header().Get("Set-Cookie"))
	}
}

func TestRequireAuthRedirectsWithNext(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/clientes/?x=1", nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/login/?next=%2Fdashboard%2Fclientes%2F%3Fx%3D1" {
		t.Fatalf("unexpected location %q", got)
	}
}

func TestRequireAuthJSON(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/clientes/", nil)
	r.Header.Set("Accept", "application/json")
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                      "/dashboard/",
		"/dashboard/clientes/":  "/dashboard/clientes/",
		"//evil.example/":       "/dashboard/",
		"https://evil.example/": "/dashboard/",
		"/\\evil.example":       "/dashboard/",
		"relative":              "/dashboard/",
	}
	for in, want := range cases {
		if got := SafeNext(in, "/dashboard/"); got != want {
			t.Errorf("SafeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResetToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tok := MakeResetToken(3, "hash-a", nil, now)

	if err := CheckResetToken(tok, 3, "hash-a", nil, now.Add(time.Hour), 72*time.Hour); err != nil {
		t.Fatalf("expected valid token: %v", err)
	}
	if err := CheckResetToken(tok, 3, "hash-b", nil, now, 72*time.Hour); err != ErrInvalidToken {
		t.Fatalf("password change must invalidate token, got %v", err)
	}
	if err := CheckResetToken(tok, 4, "hash-a", nil, now, 72*time.Hour); err != ErrInvalidToken {
		t.Fatalf("token must be bound to user, got %v", err)
	}
	if err := CheckResetToken(tok, 3, "hash-a", nil, now.Add(73*time.Hour), 72*time.Hour); err != ErrInvalidToken {
		t.Fatalf("expired token accepted, got %v", err)
	}
	if err := CheckResetToken("garbage", 3, "hash-a", nil, now, time.Hour); err != ErrInvalidToken {
		t.Fatalf("malformed token accepted, got %v", err)
	}
}

func TestResetToken_LoginInvalidates(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	tok := MakeResetToken(3, "hash-a", &before, now)

	sameSecond := before.Add(400 * time.Millisecond)
	if err := CheckResetToken(tok, 3, "hash-a", &sameSecond, now, time.Hour); err != nil {
		t.Fatalf("sub-second drift must not invalidate token: %v", err)
	}
	loggedIn := now.Add(time.Minute)
	if err := CheckResetToken(tok, 3, "hash-a", &loggedIn, now, time.Hour); err != ErrInvalidToken {
		t.Fatalf("login after issue must invalidate token, got %v", err)
	}
	if err := CheckResetToken(MakeResetToken(3, "hash-a", nil, now), 3, "hash-a", &loggedIn, now, time.Hour); err != ErrInvalidToken {
		t.Fatalf("first login must invalidate token, got %v", err)
	}
}

func TestUIDEncoding(t *testing.T) {
	id, err := DecodeUID(EncodeUID(1234))
	if err != nil || id != 1234 {
		t.Fatalf("round trip failed: %d %v", id, err)
	}
	if _, err := DecodeUID("!!"); err == nil {
		t.Fatalf("expected error for bad uid")
	}
}
