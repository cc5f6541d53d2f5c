package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceHeader = "X-Idempotence"
	idempotenceTTL    = 60 * time.Second
	idempotenceKey    = "folio:idempotence:"
)

// Idempotence suppresses duplicate POST/PUT requests for a short window, so a
// retried webhook delivery or a double-clicked admin form does not create two
// records. The key is the client-supplied X-Idempotence header when present,
// otherwise a digest of the request itself.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || (c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut) {
			c.Next()
			return
		}
		// Tracking ingest is intentionally repeatable; the same event from the
		// same visitor is valid data, not a duplicate.
		if strings.HasPrefix(c.Request.URL.Path, "/api/analytics/") {
			c.Next()
			return
		}

		key, err := requestDigest(c)
		if err != nil || key == "" {
			c.Next()
			return
		}
		redisKey := idempotenceKey + key
		ctx := c.Request.Context()

		if _, err := rdb.Get(ctx, redisKey).Result(); err == nil {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "duplicate request, try again later",
			})
			return
		} else if !errors.Is(err, redis.Nil) {
			// Redis trouble never blocks the request.
			c.Next()
			return
		}

		if err := rdb.Set(ctx, redisKey, "0", idempotenceTTL).Err(); err != nil {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			rdb.Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			rdb.Del(ctx, redisKey)
		}
	}
}

func requestDigest(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + c.ClientIP()
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:]), nil
}
