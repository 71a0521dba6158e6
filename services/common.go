package services

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"mime/multipart"
	"strings"

	"chamber-cms/cache"
	"chamber-cms/imaging"
	"chamber-cms/models"
	"chamber-cms/realtime"
	"chamber-cms/storage"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// Cache key prefixes for the public list responses.
const (
	NoticesCachePrefix = "notices:"
	NewsCachePrefix    = "news:"
	GalleryCachePrefix = "gallery:"
)

// FileStore is the upload storage the services write through.
type FileStore interface {
	Save(field string, fh *multipart.FileHeader, allow storage.Policy) (*models.AttachedFile, error)
	Path(name string) (string, error)
	DeleteQuietly(name string)
}

type ImageOptimizer interface {
	Optimize(path string) (*imaging.Result, error)
}

// publisher invalidates a resource's cached lists and announces the change.
type publisher struct {
	cache  cache.Cache
	events realtime.Broadcaster
	prefix string
}

func (p publisher) changed(event string, data any) {
	if p.cache != nil {
		if err := p.cache.DeletePrefix(context.Background(), p.prefix); err != nil {
			slog.Warn("invalidating response cache", "prefix", p.prefix, "error", err)
		}
	}
	if p.events != nil {
		p.events.Emit(event, data, realtime.AllRooms...)
	}
}

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// sanitizeRich keeps safe formatting markup in long-form content.
func sanitizeRich(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// sanitizePlain strips every tag and returns plain text.
func sanitizePlain(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// idPayload is the body of every *-deleted event.
type idPayload struct {
	ID uint `json:"id"`
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
