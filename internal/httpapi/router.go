// Package httpapi wires the gin engine for the chat proxy.
package httpapi

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokke174/Neimark-hackathon/internal/chat"
	"github.com/lokke174/Neimark-hackathon/internal/config"
	"github.com/lokke174/Neimark-hackathon/internal/httpapi/handlers"
	"github.com/lokke174/Neimark-hackathon/internal/httpapi/middleware"
	"github.com/lokke174/Neimark-hackathon/internal/store/redisstore"
	"github.com/lokke174/Neimark-hackathon/web"
)

// NewRouter builds the engine. rds may be nil; rate limiting is then off.
func NewRouter(cfg config.Config, svc *chat.Service, rds *redisstore.Store) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	if rds != nil {
		r.Use(middleware.RateLimit(rds, cfg.RateLimitQPS))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	h := handlers.New(cfg, svc)

	r.GET("/ping", h.Ping)
	r.GET("/chat", h.ChatPage)
	r.POST("/chat", h.ChatProxy)
	r.POST("/feedback", h.Feedback)
	r.GET("/history", h.History)

	return r
}
