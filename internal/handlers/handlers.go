// Package handlers serves the dashboard pages, the auth flow and the /admin JSON surface.
package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/oficont/oficont/auth"
	"github.com/oficont/oficont/httpx"
	"github.com/oficont/oficont/internal/logging"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/internal/storage"
	"github.com/oficont/oficont/view"
)

// DefaultMaxUploadBytes caps request bodies when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 4 << 20

func idParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func currentUser(r *http.Request) uint {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

// render writes the page or, when the template fails, a 500.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "server_error", nil)
		return
	}
	render(w, r, http.StatusInternalServerError, "error.html", map[string]any{
		"Status":  http.StatusInternalServerError,
		"Message": "server_error",
	})
}

// MethodNotAllowed answers requests to a path registered only for the allowed methods.
func MethodNotAllowed(allowed ...string) http.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		render(w, r, http.StatusMethodNotAllowed, "error.html", map[string]any{
			"Status":  http.StatusMethodNotAllowed,
			"Message": "method_not_allowed",
		})
	}
}

// lookupFailed answers a failed record lookup: 404 for a missing record, 500 otherwise.
func lookupFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNotFound) {
		NotFound(w, r)
		return
	}
	serverError(w, r, err)
}

// NotFound renders the error page with a 404, or a JSON error for API clients.
func NotFound(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	render(w, r, http.StatusNotFound, "error.html", map[string]any{
		"Status":  http.StatusNotFound,
		"Message": "not_found",
	})
}

// formValues reads a form, multipart or JSON body capped at maxBytes.
func formValues(w http.ResponseWriter, r *http.Request, maxBytes int64) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return httpx.FormValues(r, multipartMemory)
}

func uploadedFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if files := r.MultipartForm.File[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}

// storeUpload saves the file posted under field into dir. It returns "" when no file was sent.
func storeUpload(r *http.Request, files *storage.Files, field, dir string) (string, error) {
	fh := uploadedFile(r, field)
	if fh == nil || files == nil {
		return "", nil
	}
	return files.Save(dir, fh)
}

// removeReplaced deletes the file a record pointed at before an update attached a new one.
func removeReplaced(r *http.Request, files *storage.Files, old, current string) {
	if old == "" || old == current || files == nil {
		return
	}
	if err := files.Remove(old); err != nil {
		logging.FromContext(r.Context()).Warn("remove replaced upload failed", "path", old, "error", err)
	}
}
