package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pincite/pincite"
	"github.com/pincite/pincite/pkg/citation"
	"github.com/pincite/pincite/pkg/server/dto"
)

// CitationHandler handles citation resolution endpoints
type CitationHandler struct {
	pincite pincite.Pincite
}

// NewCitationHandler creates a new citation handler
func NewCitationHandler(p pincite.Pincite) *CitationHandler {
	return &CitationHandler{pincite: p}
}

// Resolve handles POST /citations/resolve
func (h *CitationHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	seg, err := h.pincite.Resolve(req.Reference)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed_reference", Message: err.Error()})
		return
	}
	if seg == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "reference_not_found"})
		return
	}
	c.JSON(http.StatusOK, seg)
}

// Context handles POST /citations/context
func (h *CitationHandler) Context(c *gin.Context) {
	var req dto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	kind := citation.ContextParagraph
	if req.Kind == "page" {
		kind = citation.ContextPage
	}

	cctx, err := h.pincite.Context(req.Reference, kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed_reference", Message: err.Error()})
		return
	}
	if cctx == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "reference_not_found"})
		return
	}
	c.JSON(http.StatusOK, cctx)
}

// Children handles GET /citations/children?ref=...
func (h *CitationHandler) Children(c *gin.Context) {
	reference := c.Query("ref")
	if reference == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "ref parameter is required"})
		return
	}

	children, err := h.pincite.Children(reference)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed_reference", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference": reference,
		"children":  children,
		"total":     len(children),
	})
}
