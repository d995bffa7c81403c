package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsraw/app/store"
)

type Handler struct {
	store     *store.Store
	outputDir string
	version   string
}

func NewHandler(st *store.Store, outputDir, version string) *Handler {
	return &Handler{
		store:     st,
		outputDir: outputDir,
		version:   version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"articles":  h.store.Len(),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	perSource := make(map[string]int)
	for _, name := range h.store.Sources() {
		perSource[name] = 0
	}
	for _, a := range h.store.SnapshotLive(-1) {
		perSource[a.Source]++
	}

	stats := map[string]interface{}{
		"articles":   h.store.Len(),
		"sources":    perSource,
		"dates":      h.store.Dates(),
		"version":    h.version,
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"output_dir": h.outputDir,
	}

	c.JSON(http.StatusOK, stats)
}
