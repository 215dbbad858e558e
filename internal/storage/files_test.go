package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_StoresUnderDirWithExtension(t *testing.T) {
	f := New(t.TempDir())

	rel, err := f.Write(ReceiptsDir, "Factura.PDF", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "comprobantes/"), rel)
	assert.True(t, strings.HasSuffix(rel, ".pdf"), rel)

	data, err := os.ReadFile(filepath.Join(f.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	other, err := f.Write(ReceiptsDir, "Factura.PDF", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, rel, other)
}

func TestWrite_RejectsTraversal(t *testing.T) {
	f := New(t.TempDir())
	_, err := f.Write("../etc", "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}

type failingReader struct{ n int }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n > 0 {
		n := copy(p, bytes.Repeat([]byte("x"), r.n))
		r.n = 0
		return n, nil
	}
	return 0, errors.New("connection reset")
}

func TestWrite_FailedCopyLeavesNoFile(t *testing.T) {
	f := New(t.TempDir())

	_, err := f.Write(ReceiptsDir, "recibo.pdf", &failingReader{n: 16})
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(f.Root, ReceiptsDir))
	require.NoError(t, err)
	assert.Empty(t, entries, "truncated upload is removed")
}

func TestSave_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("archivo_pdf", "balance.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("contenido"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	fh := req.MultipartForm.File["archivo_pdf"][0]

	f := New(t.TempDir())
	rel, err := f.Save(ReportsDir, fh)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "reportes/"))
}

func TestResolve_StaysInsideRoot(t *testing.T) {
	f := New("/srv/media")
	p, err := f.Resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/media", "etc", "passwd"), p)

	_, err = f.Resolve("")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestServeHTTP(t *testing.T) {
	f := New(t.TempDir())
	rel, err := f.Write(ReceiptsDir, "r.txt", strings.NewReader("hola"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("GET /media/{path...}", f)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/"+rel, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hola", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/comprobantes/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/comprobantes/missing.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemove_IgnoresMissing(t *testing.T) {
	f := New(t.TempDir())
	assert.NoError(t, f.Remove(""))
	assert.NoError(t, f.Remove("comprobantes/nope.pdf"))
}
