package ratelimit

import (
	"fmt"
	"net/http"
	"strings"

	"aerobook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware applies rate limiting to every request
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Fail open: a broken limiter must not take the API down.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	// Health/monitoring endpoints
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"):
		return RateLimitTypeHealth

	// Seat writes and ticket-change flow contend on shared inventory
	case strings.Contains(path, "/seat"),
		strings.Contains(path, "/change"),
		strings.Contains(path, "/payments/callback"):
		return RateLimitTypeCritical

	// Other ticket operations
	case strings.Contains(path, "/tickets"),
		strings.Contains(path, "/checkin"):
		return RateLimitTypeBooking

	// Public browsing endpoints
	case strings.Contains(path, "/trips"),
		strings.Contains(path, "/seatmap"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}
