package cache

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pa1nf0rce/yatube/pkg/logging"
)

// cachedPage is the stored form of a fully rendered response
type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyCapture duplicates the response body while it is being written
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// pageKey derives the cache key from the request path and query string, so
// every page number of a feed caches independently.
func pageKey(r *http.Request) string {
	key := "pagecache:" + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	return key
}

// PageMiddleware serves GET responses from the cache for ttl. Within the
// window repeated requests get the byte-identical stored response; expiry is
// time-based only, writes never invalidate. A nil cache disables caching.
func (c *Cache) PageMiddleware(ttl time.Duration) gin.HandlerFunc {
	logger := logging.WithComponent("page-cache")

	return func(ctx *gin.Context) {
		if c == nil || c.client == nil || ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}

		key := pageKey(ctx.Request)

		if raw, err := c.Get(key); err == nil {
			var page cachedPage
			if err := json.Unmarshal([]byte(raw), &page); err == nil {
				ctx.Header("Content-Type", page.ContentType)
				ctx.Data(page.Status, page.ContentType, page.Body)
				ctx.Abort()
				return
			}
			logger.Warn("Discarding undecodable cached page", zap.String("key", key))
		}

		capture := &bodyCapture{ResponseWriter: ctx.Writer}
		ctx.Writer = capture

		ctx.Next()

		// Only successful pages are worth replaying
		if capture.Status() != http.StatusOK {
			return
		}

		page := cachedPage{
			Status:      capture.Status(),
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.buf.Bytes(),
		}
		encoded, err := json.Marshal(page)
		if err != nil {
			return
		}
		if err := c.Set(key, encoded, ttl); err != nil {
			logger.Warn("Failed to store page", zap.String("key", key), zap.Error(err))
		}
	}
}
