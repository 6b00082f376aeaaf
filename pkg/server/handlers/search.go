package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pincite/pincite"
	"github.com/pincite/pincite/pkg/server/dto"
	"github.com/pincite/pincite/pkg/types"
)

// SearchHandler handles search, suggestion and navigation endpoints
type SearchHandler struct {
	pincite pincite.Pincite
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(p pincite.Pincite) *SearchHandler {
	return &SearchHandler{pincite: p}
}

// Search handles POST /documents/:id/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	mode := types.SearchMode(req.Mode)
	if !mode.Valid() {
		mode = types.SearchModeHybrid
	}

	documentID := c.Param("id")
	segments := h.pincite.Search(documentID, req.Query, mode)

	results := make([]dto.SearchResult, 0, len(segments))
	for _, seg := range segments {
		results = append(results, dto.NewSearchResult(seg))
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		DocumentID: documentID,
		Query:      req.Query,
		Mode:       string(mode),
		Results:    results,
		Total:      len(results),
	})
}

// Suggest handles GET /documents/:id/suggestions?q=prefix
func (h *SearchHandler) Suggest(c *gin.Context) {
	prefix := c.Query("q")
	if prefix == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "q parameter is required"})
		return
	}

	suggestions := h.pincite.Suggestions(c.Param("id"), prefix)
	c.JSON(http.StatusOK, gin.H{
		"prefix":      prefix,
		"suggestions": suggestions,
	})
}

// Navigation handles GET /documents/:id/navigation
func (h *SearchHandler) Navigation(c *gin.Context) {
	nav := h.pincite.NavigationMap(c.Param("id"))
	if nav == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "document_not_indexed"})
		return
	}
	c.JSON(http.StatusOK, nav)
}

// Optimize handles POST /documents/:id/optimize
func (h *SearchHandler) Optimize(c *gin.Context) {
	h.pincite.OptimizeIndex(c.Param("id"))
	c.JSON(http.StatusAccepted, gin.H{"status": "optimization scheduled"})
}
