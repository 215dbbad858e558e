package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/oficont/oficont/auth"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/validation"
)

// HomePath is where a successful login lands by default.
const HomePath = "/dashboard/"

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Root sends visitors to the dashboard or the login page.
func (h *AuthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, HomePath, http.StatusFound)
		return
	}
	http.Redirect(w, r, auth.LoginPath, http.StatusFound)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, http.StatusOK, "login.html", map[string]any{
			"Next": r.URL.Query().Get("next"),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	next := r.PostForm.Get("next")

	user, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			serverError(w, r, err)
			return
		}
		render(w, r, http.StatusOK, "login.html", map[string]any{
			"Email":  email,
			"Next":   next,
			"Errors": validation.Violations{validation.NonField: "invalid_credentials"},
		})
		return
	}

	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, auth.SafeNext(next, HomePath), http.StatusFound)
}

// Logout clears the session and shows the logged-out page. It is routed for POST only
// so a cross-site link cannot end a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	render(w, r, http.StatusOK, "logged_out.html", map[string]any{"IsLoggedIn": false})
}
