package store

import (
	"context"
	"errors"
	"time"
)

// DocumentStatus tracks a document through the processing workflow.
type DocumentStatus string

const (
	StatusIngested   DocumentStatus = "ingested"
	StatusClassified DocumentStatus = "classified"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// ErrNotFound is returned when a document id has never been stored.
var ErrNotFound = errors.New("document not found")

// WorkflowEvent is one status transition in a document's history.
type WorkflowEvent struct {
	Status    DocumentStatus `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Detail    string         `json:"detail,omitempty"`
}

// DocumentRecord is the persisted form of an ingested document.
type DocumentRecord struct {
	ID        string            `json:"id"`
	Title     string            `json:"title,omitempty"`
	Pages     map[int]string    `json:"pages"`
	Status    DocumentStatus    `json:"status"`
	History   []WorkflowEvent   `json:"history"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Stats summarizes the store contents.
type Stats struct {
	DocumentCount int64
	PageCount     int64
}

// DocumentStore persists raw document pages and workflow state. Search
// indexes are rebuilt from this store on demand and are never persisted
// themselves.
type DocumentStore interface {
	// SaveDocument writes a record, stamping CreatedAt on first write and
	// UpdatedAt on every write.
	SaveDocument(ctx context.Context, record *DocumentRecord) error

	// GetDocument retrieves a record by id. Returns ErrNotFound if the id
	// has never been stored.
	GetDocument(ctx context.Context, documentID string) (*DocumentRecord, error)

	// ListDocuments returns stored document ids, sorted.
	ListDocuments(ctx context.Context) ([]string, error)

	// UpdateStatus sets the document's status and appends a workflow event.
	UpdateStatus(ctx context.Context, documentID string, status DocumentStatus, detail string) error

	// DeleteDocument removes a record. Deleting an absent id is not an error.
	DeleteDocument(ctx context.Context, documentID string) error

	// GetStats returns document and page counts.
	GetStats(ctx context.Context) (*Stats, error)

	// Close releases the underlying database.
	Close() error
}
