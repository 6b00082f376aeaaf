// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"

	"github.com/pincite/pincite/pkg/types"
)

// MaxPageLength caps a single page's text.
const MaxPageLength = 1 << 20

// ErrPageTooLong is returned when a page exceeds MaxPageLength.
var ErrPageTooLong = errors.New("page content exceeds maximum length")

// ProcessDocumentRequest is the body of POST /documents.
type ProcessDocumentRequest struct {
	ID       string            `json:"id,omitempty"`
	Title    string            `json:"title,omitempty"`
	Pages    map[int]string    `json:"pages" binding:"required"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate performs validation on ProcessDocumentRequest
func (r *ProcessDocumentRequest) Validate() error {
	if len(r.Pages) == 0 {
		return errors.New("pages cannot be empty")
	}
	for page, content := range r.Pages {
		if page < 0 {
			return errors.New("page numbers cannot be negative")
		}
		if len(content) > MaxPageLength {
			return ErrPageTooLong
		}
	}
	return nil
}

// SearchRequest is the body of POST /documents/{id}/search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Mode  string `json:"mode,omitempty"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query cannot be empty")
	}
	if r.Mode != "" && !types.SearchMode(r.Mode).Valid() {
		return errors.New("invalid search mode: must be exact, proximity, entity, semantic, or hybrid")
	}
	return nil
}

// ResolveRequest is the body of POST /resolve and POST /context.
type ResolveRequest struct {
	Reference string `json:"reference" binding:"required"`
	Kind      string `json:"kind,omitempty"` // paragraph or page, context only
}

// Validate performs validation on ResolveRequest
func (r *ResolveRequest) Validate() error {
	if strings.TrimSpace(r.Reference) == "" {
		return errors.New("reference cannot be empty")
	}
	if r.Kind != "" && r.Kind != "paragraph" && r.Kind != "page" {
		return errors.New("invalid context kind: must be paragraph or page")
	}
	return nil
}

// SearchResult is one segment in a search response.
type SearchResult struct {
	Reference string         `json:"reference"`
	Content   string         `json:"content"`
	Page      int            `json:"page"`
	Paragraph int            `json:"paragraph"`
	Sentence  int            `json:"sentence"`
	Entities  []types.Entity `json:"entities,omitempty"`
}

// SearchResponse is the body of a search response.
type SearchResponse struct {
	DocumentID string         `json:"document_id"`
	Query      string         `json:"query"`
	Mode       string         `json:"mode"`
	Results    []SearchResult `json:"results"`
	Total      int            `json:"total"`
}

// NewSearchResult converts a segment for the wire.
func NewSearchResult(seg *types.Segment) SearchResult {
	return SearchResult{
		Reference: seg.Reference(types.SegmentSentence),
		Content:   seg.Content,
		Page:      seg.Address.Page,
		Paragraph: seg.Address.Paragraph,
		Sentence:  seg.Address.Sentence,
		Entities:  seg.Entities,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
