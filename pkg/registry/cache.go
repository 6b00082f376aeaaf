package registry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pincite/pincite/pkg/search"
	"github.com/pincite/pincite/pkg/types"
)

// maxSearchHistory bounds the per-document search history; the oldest
// record is evicted first.
const maxSearchHistory = 1000

// SearchRecord is one entry in a document's search history.
type SearchRecord struct {
	Timestamp   time.Time        `json:"timestamp"`
	Query       string           `json:"query"`
	Mode        types.SearchMode `json:"mode"`
	ResultCount int              `json:"result_count"`
}

// OptimizationMetrics describes the last proximity-graph optimization run.
type OptimizationMetrics struct {
	LastOptimized  time.Time `json:"last_optimized"`
	IndexedQueries int       `json:"indexed_queries"`
	EdgesAdded     int       `json:"edges_added"`
}

// DocumentCache wraps one document's search index with access counters,
// a bounded search-history log and optimization metadata.
//
// The index reference is swapped atomically on rebuild: a reader either
// sees the fully-old or the fully-new index, never a partial one. All other
// mutable state is serialized by the cache's own lock. A cache is created
// on the first index build for its document id and lives for the process
// lifetime; eviction is a policy concern outside this package.
type DocumentCache struct {
	documentID string
	index      atomic.Pointer[search.Index]

	mu          sync.Mutex
	lastUpdated time.Time
	accessCount int64
	history     []SearchRecord
	metrics     OptimizationMetrics
}

func newDocumentCache(documentID string) *DocumentCache {
	return &DocumentCache{documentID: documentID}
}

// DocumentID returns the cached document's id.
func (c *DocumentCache) DocumentID() string { return c.documentID }

// Index returns the current search index. Safe without locking: the
// returned index is immutable apart from its internally-locked proximity
// graph.
func (c *DocumentCache) Index() *search.Index {
	return c.index.Load()
}

// swapIndex publishes a fully-built replacement index.
func (c *DocumentCache) swapIndex(ix *search.Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index.Store(ix)
	c.lastUpdated = time.Now().UTC()
}

// recordSearch appends to the bounded history and bumps the access count.
func (c *DocumentCache) recordSearch(query string, mode types.SearchMode, resultCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessCount++
	c.history = append(c.history, SearchRecord{
		Timestamp:   time.Now().UTC(),
		Query:       query,
		Mode:        mode,
		ResultCount: resultCount,
	})
	if len(c.history) > maxSearchHistory {
		c.history = c.history[len(c.history)-maxSearchHistory:]
	}
}

func (c *DocumentCache) recordOptimization(indexedQueries, edgesAdded int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics = OptimizationMetrics{
		LastOptimized:  time.Now().UTC(),
		IndexedQueries: indexedQueries,
		EdgesAdded:     edgesAdded,
	}
}

// LastUpdated returns the time of the last index swap.
func (c *DocumentCache) LastUpdated() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUpdated
}

// AccessCount returns how many searches this cache has served.
func (c *DocumentCache) AccessCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessCount
}

// History returns a copy of the search history, oldest first.
func (c *DocumentCache) History() []SearchRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]SearchRecord, len(c.history))
	copy(out, c.history)
	return out
}

// Metrics returns the last optimization metrics.
func (c *DocumentCache) Metrics() OptimizationMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}
