package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlaceIndex is the index surface exposed over HTTP
type PlaceIndex interface {
	Len() int
	Reload() error
}

// ModelStatus reports whether a learned scoring model is active
type ModelStatus interface {
	ModelLoaded() bool
}

// CacheStatus reports whether the cache backend is usable
type CacheStatus interface {
	Connected() bool
}

// AdminHandler handles health and index administration requests
type AdminHandler struct {
	index  PlaceIndex
	scorer ModelStatus
	cache  CacheStatus
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(index PlaceIndex, scorer ModelStatus, cache CacheStatus) *AdminHandler {
	return &AdminHandler{
		index:  index,
		scorer: scorer,
		cache:  cache,
	}
}

// Health handles GET /health
func (h *AdminHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"model_loaded":    h.scorer.ModelLoaded(),
		"index_loaded":    h.index.Len() > 0,
		"cache_connected": h.cache.Connected(),
	})
}

// ReloadIndex handles POST /api/index/reload
func (h *AdminHandler) ReloadIndex(c *gin.Context) {
	if err := h.index.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Index reload failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": h.index.Len()})
}
