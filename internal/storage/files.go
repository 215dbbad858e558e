// Package storage keeps uploaded receipts and report PDFs on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload directories relative to the root.
const (
	ReceiptsDir = "comprobantes"
	ReportsDir  = "reportes"
)

// ErrInvalidPath is returned for paths that escape the upload root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Files stores uploads under Root. Stored paths are slash-separated and relative to Root.
type Files struct {
	Root string
}

// New returns a Files rooted at dir.
func New(dir string) *Files {
	return &Files{Root: dir}
}

// Save copies an uploaded file into dir with a random name, keeping the extension.
func (f *Files) Save(dir string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	return f.Write(dir, fh.Filename, src)
}

// Write stores r under dir using a uuid file name derived from the original name's extension.
func (f *Files) Write(dir, originalName string, r io.Reader) (string, error) {
	if dir == "" || strings.Contains(dir, "..") {
		return "", ErrInvalidPath
	}
	target := filepath.Join(f.Root, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	full := filepath.Join(target, name)
	out, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(full)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close file: %w", err)
	}
	return path.Join(dir, name), nil
}

// Resolve maps a stored relative path to a filesystem path inside Root.
func (f *Files) Resolve(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" {
		return "", ErrInvalidPath
	}
	return filepath.Join(f.Root, filepath.FromSlash(clean[1:])), nil
}

// Remove deletes a stored file. Missing files are ignored.
func (f *Files) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	p, err := f.Resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// ServeHTTP serves the file named by the "path" wildcard. Directories are not listed.
func (f *Files) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, err := f.Resolve(r.PathValue("path"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, p)
}
