package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/muhammedkh45/Echoo/internal/redis"
	"github.com/muhammedkh45/Echoo/internal/services"
	"github.com/muhammedkh45/Echoo/internal/transport/httpdto"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/gin-gonic/gin"
)

type MessageLimiter interface {
	AllowMessage(ctx context.Context, userID string) (*redis.RateLimitResult, error)
}

// MessageRateLimitMiddleware charges a write against the caller's message
// budget. It must run after AuthMiddleware. A limiter outage lets the
// request through.
func MessageRateLimitMiddleware(limiter MessageLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := services.IdentityFromContext(c.Request.Context())
		if !ok || limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.AllowMessage(c.Request.Context(), identity.User.ID.Hex())
		if err != nil {
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(
				echoo_errors.PublicMessage(echoo_errors.ErrRateLimited), echoo_errors.CodeRateLimited))
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
