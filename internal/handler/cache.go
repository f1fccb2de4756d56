package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuggestionCache is the cache surface exposed over HTTP
type SuggestionCache interface {
	Stats() map[string]any
	Invalidate(pattern string) (int, error)
}

// CacheHandler handles cache inspection and invalidation requests
type CacheHandler struct {
	cache SuggestionCache
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cache SuggestionCache) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// Stats handles GET /api/cache/stats
func (h *CacheHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}

// Invalidate handles POST /api/cache/invalidate?pattern=
func (h *CacheHandler) Invalidate(c *gin.Context) {
	pattern := c.DefaultQuery("pattern", "suggest:*")

	removed, err := h.cache.Invalidate(pattern)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pattern: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pattern":     pattern,
		"invalidated": removed,
	})
}
