package api

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server for serve mode: the rendered pages plus
// health and stats endpoints. Pages are static files; there is no
// server-side query surface.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.StaticFile("/", filepath.Join(handler.outputDir, "index.html"))
	r.StaticFile("/index.html", filepath.Join(handler.outputDir, "index.html"))
	r.Static("/archive", filepath.Join(handler.outputDir, "archive"))

	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)
}
