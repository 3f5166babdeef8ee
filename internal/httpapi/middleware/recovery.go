package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokke174/Neimark-hackathon/pkg/log"
)

// Recovery turns panics into a generic 500 without leaking detail.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("panic recovered",
					"panic", r,
					"path", c.Request.URL.Path,
					"request_id", c.GetString("request_id"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal error",
				})
			}
		}()
		c.Next()
	}
}
