package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"chamber-cms/cache"

	"github.com/gin-gonic/gin"
)

type bodyRecorder struct {
	gin.ResponseWriter
	body         bytes.Buffer
	cacheControl string
}

// WriteHeader marks only successful responses as cacheable.
func (w *bodyRecorder) WriteHeader(code int) {
	if code == http.StatusOK {
		w.Header().Set("Cache-Control", w.cacheControl)
		w.Header().Set("X-Cache", "MISS")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves successful GET bodies from store for ttl and marks
// them publicly cacheable for the same duration. Keys are prefix plus the
// request URI, so a service can drop every entry of a resource at once.
func ResponseCache(store cache.Cache, prefix string, ttl time.Duration) gin.HandlerFunc {
	cacheControl := fmt.Sprintf("public, max-age=%d", int(ttl.Seconds()))

	return func(c *gin.Context) {
		if store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := prefix + c.Request.URL.RequestURI()

		if body, err := store.Get(ctx, key); err == nil {
			c.Header("Cache-Control", cacheControl)
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			slog.Warn("response cache read failed", "key", key, "error", err)
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, cacheControl: cacheControl}
		c.Writer = rec
		c.Next()

		if c.Writer.Status() != http.StatusOK || rec.body.Len() == 0 {
			return
		}
		if err := store.Set(ctx, key, rec.body.Bytes(), ttl); err != nil {
			slog.Warn("response cache write failed", "key", key, "error", err)
		}
	}
}
