package pincite

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pincite/pincite/pkg/citation"
	"github.com/pincite/pincite/pkg/metrics"
	"github.com/pincite/pincite/pkg/registry"
	"github.com/pincite/pincite/pkg/segmenter"
	"github.com/pincite/pincite/pkg/store"
	"github.com/pincite/pincite/pkg/types"
)

// Pincite is the main interface for deterministic document citation and
// search. It segments documents into addressable spans, resolves citation
// references against them, and serves multi-mode searches over per-document
// in-memory indexes.
type Pincite interface {
	DocumentProcessor
	CitationResolver
	DocumentSearcher

	// Stats returns combined store and registry statistics.
	Stats(ctx context.Context) (*Stats, error)

	// StartOptimizer runs background proximity-graph optimization until the
	// context is canceled. A non-positive interval disables it.
	StartOptimizer(ctx context.Context, interval time.Duration)

	// Close snapshots search histories and releases the document store.
	Close(ctx context.Context) error
}

// Document is the input to ProcessDocument: raw page texts keyed by page
// number plus optional descriptive metadata.
type Document struct {
	ID       string            `json:"id,omitempty"`
	Title    string            `json:"title,omitempty"`
	Pages    map[int]string    `json:"pages"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ProcessResult summarizes one document processing run.
type ProcessResult struct {
	DocumentID    string                   `json:"document_id"`
	SegmentCounts map[string]int           `json:"segment_counts"`
	TotalSegments int                      `json:"total_segments"`
	Indexed       int                      `json:"indexed"`
	Integrity     citation.IntegrityReport `json:"integrity"`
}

// Stats combines store and registry counters.
type Stats struct {
	Documents     int64 `json:"documents"`
	Pages         int64 `json:"pages"`
	TotalSearches int64 `json:"total_searches"`
}

// SearchLogger persists per-document search histories.
// *telemetry.SearchLog implements it.
type SearchLogger interface {
	WriteHistory(documentID string, history []registry.SearchRecord) error
}

// Config configures a Client. Store is required; a nil Logger falls back
// to slog.Default and a nil Metrics disables instrumentation.
type Config struct {
	Logger  *slog.Logger
	Store   store.DocumentStore
	Metrics *metrics.Metrics

	// SearchLog receives every document's search history when the client
	// closes. Nil disables the snapshots.
	SearchLog SearchLogger

	// EntityPatterns is an optional YAML pattern table replacing the
	// segmenter's embedded entity patterns.
	EntityPatterns []byte
}

// Client is the main implementation of the Pincite interface.
type Client struct {
	logger    *slog.Logger
	store     store.DocumentStore
	metrics   *metrics.Metrics
	searchLog SearchLogger
	segmenter *segmenter.Segmenter
	registry  *registry.Registry

	mu        sync.RWMutex
	citations map[string]*citation.Index
}

// NewClient creates a client from the configuration.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.Store == nil {
		return nil, fmt.Errorf("pincite: a document store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seg := segmenter.New()
	if len(cfg.EntityPatterns) > 0 {
		var err error
		seg, err = segmenter.NewWithPatterns(cfg.EntityPatterns)
		if err != nil {
			return nil, fmt.Errorf("pincite: %w", err)
		}
	}

	return &Client{
		logger:    logger,
		store:     cfg.Store,
		metrics:   cfg.Metrics,
		searchLog: cfg.SearchLog,
		segmenter: seg,
		registry:  registry.New(logger),
		citations: make(map[string]*citation.Index),
	}, nil
}

// ProcessDocument persists the document, segments every page, and builds
// both the citation index and the search index. A missing ID gets a fresh
// UUID. Processing is idempotent: reprocessing the same pages yields the
// same segment IDs and the same indexes.
func (c *Client) ProcessDocument(ctx context.Context, doc Document) (*ProcessResult, error) {
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("pincite: document has no pages")
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	record := &store.DocumentRecord{
		ID:       doc.ID,
		Title:    doc.Title,
		Pages:    doc.Pages,
		Metadata: doc.Metadata,
	}
	if err := c.store.SaveDocument(ctx, record); err != nil {
		return nil, fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	if err := c.store.UpdateStatus(ctx, doc.ID, store.StatusProcessing, "segmentation started"); err != nil {
		return nil, err
	}

	result, err := c.buildIndexes(doc.ID, doc.Pages)
	if err != nil {
		if statusErr := c.store.UpdateStatus(ctx, doc.ID, store.StatusFailed, err.Error()); statusErr != nil {
			c.logger.Error("status update failed", "document_id", doc.ID, "error", statusErr)
		}
		return nil, err
	}

	detail := fmt.Sprintf("%d segments indexed", result.TotalSegments)
	if err := c.store.UpdateStatus(ctx, doc.ID, store.StatusCompleted, detail); err != nil {
		return nil, err
	}

	c.logger.Info("document processed",
		"document_id", doc.ID,
		"pages", len(doc.Pages),
		"segments", result.TotalSegments)

	return result, nil
}

// buildIndexes segments the pages and rebuilds the citation and search
// indexes for the document.
func (c *Client) buildIndexes(documentID string, pages map[int]string) (*ProcessResult, error) {
	segments := c.segmenter.SegmentDocument(documentID, pages)

	citationIndex := citation.NewIndex()
	citationIndex.AddSegments(segments)

	counts := make(map[string]int)
	var sentences []*types.Segment
	for _, seg := range segments {
		counts[seg.Type.String()]++
		if seg.Type == types.SegmentSentence {
			sentences = append(sentences, seg)
		}
	}

	c.registry.CreateOrUpdateIndex(documentID, sentences)

	c.mu.Lock()
	c.citations[documentID] = citationIndex
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IndexBuildsTotal.Inc()
		c.metrics.SegmentsIndexed.WithLabelValues(documentID).Set(float64(len(sentences)))
		c.metrics.DocumentsTotal.Set(float64(len(c.registry.DocumentIDs())))
	}

	return &ProcessResult{
		DocumentID:    documentID,
		SegmentCounts: counts,
		TotalSegments: len(segments),
		Indexed:       len(sentences),
		Integrity:     citationIndex.ValidateIntegrity(),
	}, nil
}

// Reprocess rebuilds a stored document's indexes from its persisted pages.
// Used on startup to restore in-memory state.
func (c *Client) Reprocess(ctx context.Context, documentID string) (*ProcessResult, error) {
	record, err := c.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return c.buildIndexes(record.ID, record.Pages)
}

// GetDocument retrieves the stored record for a document.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*store.DocumentRecord, error) {
	return c.store.GetDocument(ctx, documentID)
}

// ListDocuments returns stored document ids, sorted.
func (c *Client) ListDocuments(ctx context.Context) ([]string, error) {
	return c.store.ListDocuments(ctx)
}

// DeleteDocument removes a document from the store and drops its indexes.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	if err := c.store.DeleteDocument(ctx, documentID); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.citations, documentID)
	c.mu.Unlock()
	c.registry.Remove(documentID)

	if c.metrics != nil {
		c.metrics.SegmentsIndexed.DeleteLabelValues(documentID)
		c.metrics.DocumentsTotal.Set(float64(len(c.registry.DocumentIDs())))
	}
	return nil
}

func (c *Client) citationIndex(documentID string) *citation.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.citations[documentID]
}

// Resolve parses a citation reference and returns the segment it points
// at. A malformed reference is an error; a well-formed reference that
// points nowhere resolves to nil.
func (c *Client) Resolve(reference string) (*types.Segment, error) {
	addr, err := types.ParseReference(reference)
	if err != nil {
		return nil, err
	}

	ix := c.citationIndex(addr.DocumentID)
	if ix == nil {
		return nil, nil
	}
	return ix.Resolve(reference), nil
}

// Context resolves a reference together with its surroundings. Returns nil
// when the reference points nowhere.
func (c *Client) Context(reference string, kind citation.ContextKind) (*citation.Context, error) {
	addr, err := types.ParseReference(reference)
	if err != nil {
		return nil, err
	}

	ix := c.citationIndex(addr.DocumentID)
	if ix == nil {
		return nil, nil
	}
	return ix.Context(reference, kind), nil
}

// Children returns the child references of a reference in discovery order.
// The bare document form "doc:{id}" addresses the hierarchy root.
func (c *Client) Children(reference string) ([]string, error) {
	documentID, err := referenceDocumentID(reference)
	if err != nil {
		return nil, err
	}

	ix := c.citationIndex(documentID)
	if ix == nil {
		return nil, nil
	}
	return ix.Children(reference), nil
}

// referenceDocumentID extracts the document id from a reference, accepting
// the document-level form "doc:{id}" that finer-grained parsing rejects.
func referenceDocumentID(reference string) (string, error) {
	parts := strings.Split(reference, ":")
	if len(parts) == 2 && parts[0] == "doc" && parts[1] != "" {
		return parts[1], nil
	}
	addr, err := types.ParseReference(reference)
	if err != nil {
		return "", err
	}
	return addr.DocumentID, nil
}

// ValidateIntegrity reports the health of a document's citation index, or
// nil for an unknown document.
func (c *Client) ValidateIntegrity(documentID string) *citation.IntegrityReport {
	ix := c.citationIndex(documentID)
	if ix == nil {
		return nil
	}
	report := ix.ValidateIntegrity()
	return &report
}

// Search runs a query against one document's index. Unknown documents
// yield empty results.
func (c *Client) Search(documentID, query string, mode types.SearchMode) []*types.Segment {
	start := time.Now()
	results := c.registry.Search(documentID, query, mode)

	if c.metrics != nil {
		if !mode.Valid() {
			mode = types.SearchModeHybrid
		}
		c.metrics.SearchesTotal.WithLabelValues(string(mode)).Inc()
		c.metrics.SearchDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}
	return results
}

// Suggestions returns indexed terms completing a partial query.
func (c *Client) Suggestions(documentID, partialQuery string) []string {
	return c.registry.Suggestions(documentID, partialQuery)
}

// NavigationMap returns the page and paragraph structure of a document's
// indexed sentences.
func (c *Client) NavigationMap(documentID string) *registry.NavigationMap {
	return c.registry.NavigationMap(documentID)
}

// OptimizeIndex pre-computes proximity links for frequent queries against
// one document. Unknown documents are a no-op.
func (c *Client) OptimizeIndex(documentID string) {
	c.registry.OptimizeIndex(documentID)
}

// Registry exposes the underlying search registry.
func (c *Client) Registry() *registry.Registry {
	return c.registry
}

// IndexedDocumentIDs returns the ids with live in-memory indexes, sorted.
func (c *Client) IndexedDocumentIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.citations))
	for id := range c.citations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stats returns combined store and registry statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	storeStats, err := c.store.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	registryStats := c.registry.Stats()

	return &Stats{
		Documents:     storeStats.DocumentCount,
		Pages:         storeStats.PageCount,
		TotalSearches: registryStats.TotalSearches,
	}, nil
}

// StartOptimizer runs background proximity-graph optimization until the
// context is canceled.
func (c *Client) StartOptimizer(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.registry.StartOptimizer(ctx, interval)
}

// Close snapshots search histories to the configured search log and
// releases the document store.
func (c *Client) Close(ctx context.Context) error {
	c.flushSearchHistories()
	return c.store.Close()
}

func (c *Client) flushSearchHistories() {
	if c.searchLog == nil {
		return
	}
	for _, id := range c.registry.DocumentIDs() {
		cache := c.registry.Cache(id)
		if cache == nil {
			continue
		}
		if err := c.searchLog.WriteHistory(id, cache.History()); err != nil {
			c.logger.Error("search history snapshot failed", "document_id", id, "error", err)
		}
	}
}
