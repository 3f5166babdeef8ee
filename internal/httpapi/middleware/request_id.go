package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lokke174/Neimark-hackathon/internal/common"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a ULID unless the client sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			if id, err := common.NewULID(); err == nil {
				rid = id
			}
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}
