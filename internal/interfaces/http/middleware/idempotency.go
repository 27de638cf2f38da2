package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the caller-chosen replay protection key
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects replays of requests carrying an Idempotency-Key
// header. The key is scoped to the organization and route, so the same
// key on a different endpoint is a distinct request. Requests without
// the header pass through unchanged.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scoped := fmt.Sprintf("%s:%s:%s:%s",
			c.GetHeader("X-Org-ID"), c.Request.Method, c.FullPath(), key)

		first, err := store.MarkProcessed(c.Request.Context(), scoped, ttl)
		if err != nil {
			// The store being unreachable must not block payments; the
			// operation itself is still transactional.
			c.Next()
			return
		}
		if !first {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeConflict,
				fmt.Sprintf("Request with idempotency key %q was already processed", key),
			))
			return
		}

		c.Next()
	}
}
