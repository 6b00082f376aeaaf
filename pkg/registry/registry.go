// Package registry holds the process-wide map from document id to that
// document's search cache. It is the entry point for index creation,
// searching, suggestions and background optimization.
//
// The registry is an explicitly constructed service: build one at startup
// and inject it into whatever serves requests. There is no package-level
// singleton.
package registry

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/pincite/pincite/pkg/search"
	"github.com/pincite/pincite/pkg/types"
)

// popularityThreshold is the global query count above which a query is
// considered frequent enough to pre-compute proximity links for.
const popularityThreshold = 5

// maxSuggestions caps prefix suggestions per request.
const maxSuggestions = 10

// Registry maps document ids to their search caches and tracks global
// search statistics. Safe for concurrent use: the document map is guarded
// for new-id insertion only, existing caches are looked up under a read
// lock and synchronize themselves.
type Registry struct {
	logger *slog.Logger

	mu     sync.RWMutex
	caches map[string]*DocumentCache

	statsMu       sync.Mutex
	totalSearches int64
	popular       map[string]int
}

// New returns an empty registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		caches: make(map[string]*DocumentCache),
		popular: make(map[string]int),
	}
}

// CreateOrUpdateIndex builds a new search index from the given segments and
// atomically swaps it into the document's cache, creating the cache on
// first sight of the document id. Readers in flight during the rebuild see
// either the old or the new index in full.
func (r *Registry) CreateOrUpdateIndex(documentID string, segments []*types.Segment) *DocumentCache {
	ix := search.NewIndex(documentID)
	for _, seg := range segments {
		ix.AddSegment(seg)
	}

	cache := r.getOrCreate(documentID)
	cache.swapIndex(ix)

	r.logger.Info("search index rebuilt",
		"document_id", documentID,
		"segments", ix.SegmentCount())

	return cache
}

func (r *Registry) getOrCreate(documentID string) *DocumentCache {
	r.mu.RLock()
	cache, ok := r.caches[documentID]
	r.mu.RUnlock()
	if ok {
		return cache
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cache, ok = r.caches[documentID]; ok {
		return cache
	}
	cache = newDocumentCache(documentID)
	r.caches[documentID] = cache
	return cache
}

// Remove drops a document's cache. In-flight readers holding the old
// index keep working against it.
func (r *Registry) Remove(documentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caches, documentID)
}

// Cache returns the cache for a document id, or nil if the document has
// never been indexed.
func (r *Registry) Cache(documentID string) *DocumentCache {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.caches[documentID]
}

// DocumentIDs returns the indexed document ids, sorted.
func (r *Registry) DocumentIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.caches))
	for id := range r.caches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Search runs a query against a document's current index. An unknown
// document id yields an empty result, not an error: callers query
// speculatively. Every call is recorded in the cache history and the
// global popularity counters.
func (r *Registry) Search(documentID, query string, mode types.SearchMode) []*types.Segment {
	if !mode.Valid() {
		mode = types.SearchModeHybrid
	}

	cache := r.Cache(documentID)
	if cache == nil {
		return nil
	}
	// The cache is published before its first index swap; treat the gap
	// as an empty index.
	ix := cache.Index()
	if ix == nil {
		return nil
	}

	results := ix.Search(query, mode)

	cache.recordSearch(query, mode, len(results))

	r.statsMu.Lock()
	r.totalSearches++
	r.popular[query]++
	r.statsMu.Unlock()

	return results
}

// Suggestions returns up to ten indexed terms with the given prefix,
// lexicographically sorted. Unknown documents yield nothing.
func (r *Registry) Suggestions(documentID, partialQuery string) []string {
	cache := r.Cache(documentID)
	if cache == nil {
		return nil
	}
	ix := cache.Index()
	if ix == nil {
		return nil
	}
	return ix.SuggestTerms(partialQuery, maxSuggestions)
}

// Stats is a snapshot of registry-wide counters.
type Stats struct {
	Documents     int   `json:"documents"`
	TotalSearches int64 `json:"total_searches"`
}

// Stats returns registry-wide counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	documents := len(r.caches)
	r.mu.RUnlock()

	r.statsMu.Lock()
	total := r.totalSearches
	r.statsMu.Unlock()

	return Stats{Documents: documents, TotalSearches: total}
}

// frequentQueries returns queries whose global count exceeds the
// popularity threshold, sorted for deterministic optimization order.
func (r *Registry) frequentQueries() []string {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()

	var out []string
	for q, count := range r.popular {
		if count > popularityThreshold {
			out = append(out, q)
		}
	}
	sort.Strings(out)
	return out
}

// OptimizeIndex pre-computes proximity links for globally frequent queries
// against one document. For each frequent query it re-runs a hybrid search
// and links each of the top five results to the five results after it,
// weighted by Jaccard similarity of their content. The work is advisory:
// it is safe to skip and safe to repeat, and it only appends to the
// current index's internally-locked proximity graph, so foreground
// searches are never blocked.
func (r *Registry) OptimizeIndex(documentID string) {
	cache := r.Cache(documentID)
	if cache == nil {
		return
	}
	ix := cache.Index()
	if ix == nil {
		return
	}

	queries := r.frequentQueries()
	edgesAdded := 0

	for _, query := range queries {
		results := ix.Search(query, types.SearchModeHybrid)
		top := results
		if len(top) > 5 {
			top = top[:5]
		}
		for i, seg := range top {
			next := results[i+1:]
			if len(next) > 5 {
				next = next[:5]
			}
			for _, other := range next {
				score := search.JaccardSimilarity(seg.Content, other.Content)
				ix.AddProximityEdge(seg.ID(), search.Edge{ID: other.ID(), Score: score})
				edgesAdded++
			}
		}
	}

	cache.recordOptimization(len(queries), edgesAdded)

	if len(queries) > 0 {
		r.logger.Debug("proximity graph optimized",
			"document_id", documentID,
			"queries", len(queries),
			"edges", edgesAdded)
	}
}

// OptimizeAll runs OptimizeIndex over every known document.
func (r *Registry) OptimizeAll() {
	for _, id := range r.DocumentIDs() {
		r.OptimizeIndex(id)
	}
}

// StartOptimizer runs OptimizeAll on a fixed interval until the context is
// canceled. It is intended to run for the process lifetime as a background
// goroutine next to the request path.
func (r *Registry) StartOptimizer(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.OptimizeAll()
			}
		}
	}()
}
