package pincite

import (
	"context"

	"github.com/pincite/pincite/pkg/citation"
	"github.com/pincite/pincite/pkg/registry"
	"github.com/pincite/pincite/pkg/store"
	"github.com/pincite/pincite/pkg/types"
)

// This file defines focused interfaces composed into the main Pincite
// interface. Consumers should depend on the smallest interface that meets
// their needs.

// DocumentProcessor manages the document lifecycle: ingestion,
// segmentation, index builds and removal.
type DocumentProcessor interface {
	// ProcessDocument persists the document, segments every page, and
	// builds the citation and search indexes.
	ProcessDocument(ctx context.Context, doc Document) (*ProcessResult, error)

	// Reprocess rebuilds a stored document's indexes from its persisted
	// pages.
	Reprocess(ctx context.Context, documentID string) (*ProcessResult, error)

	// GetDocument retrieves the stored record for a document.
	GetDocument(ctx context.Context, documentID string) (*store.DocumentRecord, error)

	// ListDocuments returns stored document ids, sorted.
	ListDocuments(ctx context.Context) ([]string, error)

	// DeleteDocument removes a document from the store and drops its
	// indexes.
	DeleteDocument(ctx context.Context, documentID string) error
}

// CitationResolver resolves citation references against processed
// documents.
type CitationResolver interface {
	// Resolve returns the segment a reference points at. A malformed
	// reference is an error; an unbound reference resolves to nil.
	Resolve(reference string) (*types.Segment, error)

	// Context resolves a reference together with its enclosing paragraph
	// or page and neighboring sentences.
	Context(reference string, kind citation.ContextKind) (*citation.Context, error)

	// Children returns the child references of a reference in discovery
	// order.
	Children(reference string) ([]string, error)

	// ValidateIntegrity reports the health of a document's citation index.
	ValidateIntegrity(documentID string) *citation.IntegrityReport
}

// DocumentSearcher serves queries over per-document search indexes.
type DocumentSearcher interface {
	// Search runs a query against one document's index.
	Search(documentID, query string, mode types.SearchMode) []*types.Segment

	// Suggestions returns indexed terms completing a partial query.
	Suggestions(documentID, partialQuery string) []string

	// NavigationMap returns the page and paragraph structure of a
	// document's indexed sentences.
	NavigationMap(documentID string) *registry.NavigationMap

	// OptimizeIndex pre-computes proximity links for frequent queries
	// against one document.
	OptimizeIndex(documentID string)
}
