package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pincite/pincite"
	"github.com/pincite/pincite/pkg/server/dto"
	"github.com/pincite/pincite/pkg/store"
)

// DocumentHandler handles the document lifecycle endpoints
type DocumentHandler struct {
	pincite pincite.Pincite
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(p pincite.Pincite) *DocumentHandler {
	return &DocumentHandler{pincite: p}
}

// Process handles POST /documents
func (h *DocumentHandler) Process(c *gin.Context) {
	var req dto.ProcessDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.pincite.ProcessDocument(c.Request.Context(), pincite.Document{
		ID:       req.ID,
		Title:    req.Title,
		Pages:    req.Pages,
		Metadata: req.Metadata,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "processing_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// List handles GET /documents
func (h *DocumentHandler) List(c *gin.Context) {
	ids, err := h.pincite.ListDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "list_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": ids, "total": len(ids)})
}

// Get handles GET /documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	record, err := h.pincite.GetDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "document_not_found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "retrieval_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.pincite.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "delete_failed", Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Reprocess handles POST /documents/:id/reprocess
func (h *DocumentHandler) Reprocess(c *gin.Context) {
	result, err := h.pincite.Reprocess(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "document_not_found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "processing_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Integrity handles GET /documents/:id/integrity
func (h *DocumentHandler) Integrity(c *gin.Context) {
	report := h.pincite.ValidateIntegrity(c.Param("id"))
	if report == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "document_not_indexed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Stats handles GET /stats
func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.pincite.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "stats_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
