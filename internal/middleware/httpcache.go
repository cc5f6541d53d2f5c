package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	apiCachePrefix  = "folio:api-cache:"
	defaultCacheTTL = 15 * time.Second
	maxCachedBody   = 1 << 20
)

type cacheBodyWriter struct {
	gin.ResponseWriter
	body     []byte
	overflow bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.overflow || len(data) == 0 {
		return
	}
	if len(w.body)+len(data) > maxCachedBody {
		w.overflow = true
		return
	}
	w.body = append(w.body, data...)
}

// HTTPCache caches anonymous GET responses in Redis for a short TTL so bursts
// of public traffic do not fan out to the database. Authenticated requests and
// responses that opt out via Cache-Control bypass the cache.
func HTTPCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet || carriesCredential(c) {
			c.Next()
			return
		}

		key := apiCachePrefix + c.Request.URL.RequestURI()
		if body, err := rdb.Get(c.Request.Context(), key).Bytes(); err == nil && len(body) > 0 {
			c.Header("X-Cache", "hit")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		buffer := &cacheBodyWriter{ResponseWriter: c.Writer}
		c.Writer = buffer
		c.Next()

		if c.Writer.Status() != http.StatusOK || buffer.overflow || len(buffer.body) == 0 {
			return
		}
		if cc := strings.ToLower(c.Writer.Header().Get("Cache-Control")); strings.Contains(cc, "no-store") || strings.Contains(cc, "no-cache") {
			return
		}
		// Best effort: a failed cache write must not fail the request.
		_ = rdb.Set(c.Request.Context(), key, buffer.body, ttl).Err()
	}
}

// PurgeHTTPCache drops every cached response, for use after admin writes.
func PurgeHTTPCache(ctx context.Context, rdb *redis.Client) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	var cursor uint64
	var deleted int64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, apiCachePrefix+"*", 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func carriesCredential(c *gin.Context) bool {
	return c.GetHeader("Authorization") != "" || c.Query("token") != ""
}
