package handler

import (
	"context"
	"errors"
	"net/http"

	"suggest/internal/model"

	"github.com/gin-gonic/gin"
)

// Suggester produces ranked suggestions for a raw query string
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]model.SuggestItem, error)
}

// SuggestHandler handles suggestion HTTP requests
type SuggestHandler struct {
	suggester Suggester
}

// NewSuggestHandler creates a new suggestion handler
func NewSuggestHandler(suggester Suggester) *SuggestHandler {
	return &SuggestHandler{suggester: suggester}
}

// Suggest handles GET /api/suggest?q=
func (h *SuggestHandler) Suggest(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter 'q'"})
		return
	}

	items, err := h.suggester.Suggest(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, model.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion failed: " + err.Error()})
		return
	}

	if items == nil {
		items = []model.SuggestItem{}
	}

	// The response body is the bare array of items, nothing wrapped around it.
	c.JSON(http.StatusOK, items)
}
