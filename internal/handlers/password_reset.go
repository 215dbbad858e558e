package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oficont/oficont/auth"
	"github.com/oficont/oficont/i18n"
	"github.com/oficont/oficont/internal/logging"
	"github.com/oficont/oficont/internal/mail"
	"github.com/oficont/oficont/internal/middleware"
	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/validation"
)

const (
	resetDonePath     = "/password_reset/done/"
	resetCompletePath = "/password_reset/complete/"
)

// PasswordResetHandler runs the emailed-link password reset flow.
type PasswordResetHandler struct {
	users   *services.UserService
	mailer  mail.Sender
	baseURL string
	timeout time.Duration
	now     func() time.Time
}

func NewPasswordResetHandler(users *services.UserService, mailer mail.Sender, baseURL string, timeout time.Duration) *PasswordResetHandler {
	return &PasswordResetHandler{
		users:   users,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		now:     time.Now,
	}
}

// Request takes an email and mails a reset link when it belongs to an active user.
// The response is the same whether or not the address matched.
func (h *PasswordResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, http.StatusOK, "password_reset_form.html", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	if !v.Empty() {
		render(w, r, http.StatusOK, "password_reset_form.html", map[string]any{"Email": email, "Errors": v})
		return
	}

	user, err := h.users.FindActiveByEmail(r.Context(), email)
	switch {
	case errors.Is(err, services.ErrNotFound):
		// Unknown addresses get the same response.
	case err != nil:
		serverError(w, r, err)
		return
	default:
		if err := h.mailer.Send(r.Context(), h.resetMessage(r, user)); err != nil {
			logging.FromContext(r.Context()).Error("send reset mail failed", "user_id", user.ID, "error", err)
		}
	}
	http.Redirect(w, r, resetDonePath, http.StatusFound)
}

func (h *PasswordResetHandler) resetMessage(r *http.Request, u *models.User) mail.Message {
	lang := middleware.LangFrom(r)
	link := fmt.Sprintf("%s/password_reset/confirm/%s/%s/",
		h.baseURL, auth.EncodeUID(u.ID), auth.MakeResetToken(u.ID, u.Password, u.LastLogin, h.now()))
	return mail.Message{
		To:      u.Email,
		Subject: i18n.T(lang, "password_reset_subject"),
		Body:    i18n.T(lang, "password_reset_intro") + "\n\n" + link + "\n",
	}
}

func (h *PasswordResetHandler) Done(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "password_reset_done.html", nil)
}

// Confirm checks the link and sets the new password.
func (h *PasswordResetHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	user := h.userForLink(r)
	if user == nil {
		render(w, r, http.StatusOK, "password_reset_confirm.html", map[string]any{"Valid": false})
		return
	}
	if r.Method == http.MethodGet {
		render(w, r, http.StatusOK, "password_reset_confirm.html", map[string]any{"Valid": true})
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	p1, p2 := r.PostForm.Get("new_password1"), r.PostForm.Get("new_password2")
	v := validation.Violations{}
	validation.Required("new_password1", p1, v)
	validation.Required("new_password2", p2, v)
	if v.Empty() && p1 != p2 {
		v.Add("new_password2", "password_mismatch")
	}
	if v.Empty() {
		err := h.users.SetPassword(r.Context(), user, p1)
		switch {
		case errors.Is(err, services.ErrPasswordTooShort):
			v.Add("new_password1", "password_too_short")
		case err != nil:
			serverError(w, r, err)
			return
		default:
			http.Redirect(w, r, resetCompletePath, http.StatusFound)
			return
		}
	}
	render(w, r, http.StatusOK, "password_reset_confirm.html", map[string]any{"Valid": true, "Errors": v})
}

// userForLink returns the active user the link was issued for, or nil when the link is invalid.
func (h *PasswordResetHandler) userForLink(r *http.Request) *models.User {
	uid, err := auth.DecodeUID(r.PathValue("uid"))
	if err != nil {
		return nil
	}
	user, err := h.users.Get(r.Context(), uid)
	if err != nil || !user.Active {
		return nil
	}
	if auth.CheckResetToken(r.PathValue("token"), user.ID, user.Password, user.LastLogin, h.now(), h.timeout) != nil {
		return nil
	}
	return user
}

func (h *PasswordResetHandler) Complete(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "password_reset_complete.html", nil)
}
