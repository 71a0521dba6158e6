package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chamber-cms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestSave_StoresUnderUniqueName(t *testing.T) {
	s, err := NewLocal(t.TempDir(), 1<<20)
	require.NoError(t, err)

	pdf := []byte("%PDF-1.4\n%test document\n")
	a, err := s.Save("pdfFile", fileHeader(t, "pdfFile", "Report.PDF", pdf), AllowDocuments)
	require.NoError(t, err)
	b, err := s.Save("pdfFile", fileHeader(t, "pdfFile", "Report.PDF", pdf), AllowDocuments)
	require.NoError(t, err)

	assert.NotEqual(t, a.Filename, b.Filename)
	assert.True(t, strings.HasPrefix(a.Filename, "pdfFile-"))
	assert.True(t, strings.HasSuffix(a.Filename, ".pdf"))
	assert.Equal(t, "Report.PDF", a.OriginalName)
	assert.Equal(t, "application/pdf", a.Mimetype)
	assert.Equal(t, int64(len(pdf)), a.Size)

	stored, err := os.ReadFile(filepath.Join(s.Dir, a.Filename))
	require.NoError(t, err)
	assert.Equal(t, pdf, stored)
}

func TestSave_RejectsDisallowedType(t *testing.T) {
	s, err := NewLocal(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, err = s.Save("image", fileHeader(t, "image", "evil.png", []byte("<html><script>x</script></html>")), AllowImages)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.Save("pdfFile", fileHeader(t, "pdfFile", "pic.png", pngHeader), AllowPDF)
	assert.ErrorIs(t, err, models.ErrValidation)

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	s, err := NewLocal(t.TempDir(), 16)
	require.NoError(t, err)

	_, err = s.Save("image", fileHeader(t, "image", "a.png", append(pngHeader, make([]byte, 64)...)), AllowImages)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPath_RejectsTraversal(t *testing.T) {
	s, err := NewLocal(t.TempDir(), 1<<20)
	require.NoError(t, err)

	for _, name := range []string{"../etc/passwd", "a/b.png", "..", "", `..\x.png`} {
		_, err := s.Path(name)
		assert.Error(t, err, name)
	}

	p, err := s.Path("image-1-abc.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir, "image-1-abc.png"), p)
}

func TestDelete_MissingFileIsNotAnError(t *testing.T) {
	s, err := NewLocal(t.TempDir(), 1<<20)
	require.NoError(t, err)

	assert.NoError(t, s.Delete("gone.pdf"))
	assert.NoError(t, s.Delete(""))
	assert.Error(t, s.Delete("../x"))
}

func TestSweep_RemovesOldUnreferencedFiles(t *testing.T) {
	s, err := NewLocal(t.TempDir(), 1<<20)
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"kept.png", "orphan.png", "half.part"} {
		path := filepath.Join(s.Dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(path, old, old))
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "fresh.png"), []byte("x"), 0o644))

	removed, err := s.Sweep(time.Hour, func(name string) bool { return name == "kept.png" })
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	for name, exists := range map[string]bool{"kept.png": true, "orphan.png": false, "half.part": false, "fresh.png": true} {
		_, err := os.Stat(filepath.Join(s.Dir, name))
		assert.Equal(t, exists, err == nil, name)
	}
}
