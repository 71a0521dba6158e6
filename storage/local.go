// Package storage keeps uploaded files in a local directory under
// collision-free names.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chamber-cms/models"

	"github.com/google/uuid"
)

// Policy decides whether a sniffed content type may be stored.
type Policy func(mimetype string) bool

func AllowImages(mimetype string) bool {
	return strings.HasPrefix(mimetype, "image/")
}

func AllowPDF(mimetype string) bool {
	return mimetype == "application/pdf"
}

func AllowDocuments(mimetype string) bool {
	return AllowPDF(mimetype) || AllowImages(mimetype)
}

// Local stores files flat in Dir.
type Local struct {
	Dir     string
	MaxSize int64
}

func NewLocal(dir string, maxSize int64) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving uploads directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Local{Dir: abs, MaxSize: maxSize}, nil
}

// Save copies an uploaded part to <field>-<unixmillis>-<random><ext>. The
// content type is sniffed from the bytes, not taken from the client.
func (s *Local) Save(field string, fh *multipart.FileHeader, allow Policy) (*models.AttachedFile, error) {
	if fh.Size > s.MaxSize {
		return nil, models.Invalid("File too large. Maximum size is %dMB", s.MaxSize>>20)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]

	mimetype := sniff(head)
	if !allow(mimetype) {
		return nil, models.Invalid("Invalid file type. Only PDF and image files are allowed")
	}

	name := s.newName(field, fh.Filename, mimetype)
	final := filepath.Join(s.Dir, name)
	tmp := final + ".part"

	dst, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating upload file: %w", err)
	}
	written, err := io.Copy(dst, io.LimitReader(io.MultiReader(bytes.NewReader(head), src), s.MaxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.MaxSize {
		err = models.Invalid("File too large. Maximum size is %dMB", s.MaxSize>>20)
	}
	if err == nil {
		err = os.Rename(tmp, final)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}

	return &models.AttachedFile{
		Filename:     name,
		OriginalName: filepath.Base(fh.Filename),
		Mimetype:     mimetype,
		Size:         written,
	}, nil
}

func (s *Local) newName(field, original, mimetype string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" || len(ext) > 8 {
		if exts, _ := mime.ExtensionsByType(mimetype); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}

// Path resolves a stored name inside Dir, rejecting anything that would
// escape it.
func (s *Local) Path(name string) (string, error) {
	clean := filepath.Base(name)
	if clean != name || clean == "." || clean == ".." || clean == "" || strings.ContainsAny(name, `/\`) {
		return "", models.Invalid("Invalid file name")
	}
	return filepath.Join(s.Dir, clean), nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *Local) Delete(name string) error {
	if name == "" {
		return nil
	}
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// DeleteQuietly removes a file and only logs a failure.
func (s *Local) DeleteQuietly(name string) {
	if err := s.Delete(name); err != nil {
		slog.Warn("removing upload failed", "file", name, "error", err)
	}
}

// Sweep removes files older than maxAge that keep reports false for.
// Partial writes (*.part) older than maxAge are removed as well.
func (s *Local) Sweep(maxAge time.Duration, keep func(name string) bool) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".part") && !strings.HasSuffix(name, ".tmp") && keep(name) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

func sniff(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
