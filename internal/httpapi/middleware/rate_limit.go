package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lokke174/Neimark-hackathon/internal/store/redisstore"
	"github.com/lokke174/Neimark-hackathon/pkg/log"
)

// RateLimit caps requests per client IP per second using a redis counter.
// Redis failures let the request through; the limiter is best effort.
func RateLimit(store *redisstore.Store, qps int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		count, err := store.IncrWindow(c.Request.Context(), key, time.Second)
		if err != nil {
			log.Error("rate limit counter failed", err)
			c.Next()
			return
		}

		if count > int64(qps) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Слишком много запросов. Попробуйте позже.",
			})
			return
		}
		c.Next()
	}
}
