// Package search implements the per-document, in-memory search index:
// an inverted term index, a position index, an entity-type index and a
// proximity graph over a document's sentence segments.
//
// An Index is built once, fully populated, and then published to readers.
// After publication everything except the proximity graph is immutable, so
// concurrent searches need no locking. Rebuilds construct a brand-new Index
// and swap it in; they never mutate a published one.
package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pincite/pincite/pkg/types"
)

// ProximityWindow is the maximum token distance between adjacent query
// tokens for a segment to qualify in proximity search.
const ProximityWindow = 10

// maxProximityEdges caps the per-segment proximity graph fan-out.
const maxProximityEdges = 32

// Position locates a segment inside a document.
type Position struct {
	Page      int
	Paragraph int
	Sentence  int
}

// Edge is a weighted link in the proximity graph. Score is in [0, 1].
type Edge struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Index is a search index over one document's segments. Posting lists are
// roaring bitmaps keyed by per-index segment ordinals; ordinals follow
// insertion order, which keeps every result ordering deterministic.
type Index struct {
	documentID string

	segments []*types.Segment
	ordinals map[string]uint32

	inverted  map[string]*roaring.Bitmap
	positions map[Position]uint32
	entities  map[string]*roaring.Bitmap

	proximityMu sync.Mutex
	proximity   map[string][]Edge
}

// NewIndex returns an empty index for one document.
func NewIndex(documentID string) *Index {
	return &Index{
		documentID: documentID,
		ordinals:   make(map[string]uint32),
		inverted:   make(map[string]*roaring.Bitmap),
		positions:  make(map[Position]uint32),
		entities:   make(map[string]*roaring.Bitmap),
		proximity:  make(map[string][]Edge),
	}
}

// DocumentID returns the id of the indexed document.
func (ix *Index) DocumentID() string { return ix.documentID }

// AddSegment inserts a segment into every sub-index. It is a build-phase
// operation: callers must finish adding segments before publishing the
// index to readers.
func (ix *Index) AddSegment(seg *types.Segment) {
	id := seg.ID()
	if _, exists := ix.ordinals[id]; exists {
		return
	}

	ordinal := uint32(len(ix.segments))
	ix.segments = append(ix.segments, seg)
	ix.ordinals[id] = ordinal

	ix.positions[Position{
		Page:      seg.Address.Page,
		Paragraph: seg.Address.Paragraph,
		Sentence:  seg.Address.Sentence,
	}] = ordinal

	for _, word := range Tokenize(seg.Content) {
		bm, ok := ix.inverted[word]
		if !ok {
			bm = roaring.New()
			ix.inverted[word] = bm
		}
		bm.Add(ordinal)
	}

	for _, entity := range seg.Entities {
		bm, ok := ix.entities[entity.Type]
		if !ok {
			bm = roaring.New()
			ix.entities[entity.Type] = bm
		}
		bm.Add(ordinal)
	}
}

// SegmentCount returns the number of indexed segments.
func (ix *Index) SegmentCount() int { return len(ix.segments) }

// Segments returns the indexed segments in insertion order.
func (ix *Index) Segments() []*types.Segment {
	out := make([]*types.Segment, len(ix.segments))
	copy(out, ix.segments)
	return out
}

// SegmentAt returns the segment at a document position, or nil.
func (ix *Index) SegmentAt(pos Position) *types.Segment {
	ordinal, ok := ix.positions[pos]
	if !ok {
		return nil
	}
	return ix.segments[ordinal]
}

// Search runs a query in the given mode. Unknown modes fall back to hybrid,
// matching the default. Results are ordered by ascending document position;
// there is no relevance scoring beyond that, so identical queries always
// return identical orderings.
func (ix *Index) Search(query string, mode types.SearchMode) []*types.Segment {
	switch mode {
	case types.SearchModeExact:
		return ix.exactSearch(query)
	case types.SearchModeProximity:
		return ix.proximitySearch(query)
	case types.SearchModeEntity:
		return ix.entitySearch(query)
	case types.SearchModeSemantic:
		// Embedding-based lookup is not implemented.
		return nil
	default:
		return ix.hybridSearch(query)
	}
}

// exactSearch unions the posting lists of every query token.
func (ix *Index) exactSearch(query string) []*types.Segment {
	matched := roaring.New()
	for _, word := range Tokenize(query) {
		if bm, ok := ix.inverted[word]; ok {
			matched.Or(bm)
		}
	}
	return ix.collect(matched)
}

// proximitySearch intersects the posting lists of all query tokens and then
// keeps only segments where every adjacent token pair co-occurs within
// ProximityWindow tokens. Queries with fewer than two tokens fall back to
// exact search.
func (ix *Index) proximitySearch(query string) []*types.Segment {
	words := Tokenize(query)
	if len(words) < 2 {
		return ix.exactSearch(query)
	}

	var candidates *roaring.Bitmap
	for _, word := range words {
		bm, ok := ix.inverted[word]
		if !ok {
			return nil
		}
		if candidates == nil {
			candidates = bm.Clone()
		} else {
			candidates.And(bm)
		}
	}

	matched := roaring.New()
	it := candidates.Iterator()
	for it.HasNext() {
		ordinal := it.Next()
		seg := ix.segments[ordinal]
		if withinWindow(Tokenize(seg.Content), words, ProximityWindow) {
			matched.Add(ordinal)
		}
	}
	return ix.collect(matched)
}

// entitySearch returns the posting list for a single entity-type key.
func (ix *Index) entitySearch(entityType string) []*types.Segment {
	bm, ok := ix.entities[entityType]
	if !ok {
		return nil
	}
	return ix.collect(bm)
}

// hybridSearch unions exact and proximity results.
func (ix *Index) hybridSearch(query string) []*types.Segment {
	matched := roaring.New()
	for _, seg := range ix.exactSearch(query) {
		matched.Add(ix.ordinals[seg.ID()])
	}
	for _, seg := range ix.proximitySearch(query) {
		matched.Add(ix.ordinals[seg.ID()])
	}
	return ix.collect(matched)
}

// collect materializes a result bitmap into segments ordered by document
// position.
func (ix *Index) collect(matched *roaring.Bitmap) []*types.Segment {
	if matched.IsEmpty() {
		return nil
	}

	out := make([]*types.Segment, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		out = append(out, ix.segments[it.Next()])
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Address, out[j].Address
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Paragraph != b.Paragraph {
			return a.Paragraph < b.Paragraph
		}
		if a.Sentence != b.Sentence {
			return a.Sentence < b.Sentence
		}
		return a.CharStart < b.CharStart
	})
	return out
}

// withinWindow reports whether every adjacent pair of query words has at
// least one occurrence-position pair within the window. All position pairs
// are checked, not just the nearest occurrences.
func withinWindow(contentWords, queryWords []string, window int) bool {
	occurrences := make([][]int, len(queryWords))
	for qi, qw := range queryWords {
		for ci, cw := range contentWords {
			if cw == qw {
				occurrences[qi] = append(occurrences[qi], ci)
			}
		}
		if len(occurrences[qi]) == 0 {
			return false
		}
	}

	for i := 0; i < len(occurrences)-1; i++ {
		found := false
	pair:
		for _, p1 := range occurrences[i] {
			for _, p2 := range occurrences[i+1] {
				if abs(p1-p2) <= window {
					found = true
					break pair
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// SuggestTerms returns up to limit indexed terms that start with the given
// prefix, lexicographically sorted. The prefix is lower-cased to match the
// index's tokenization.
func (ix *Index) SuggestTerms(prefix string, limit int) []string {
	prefix = strings.ToLower(prefix)

	var terms []string
	for term := range ix.inverted {
		if strings.HasPrefix(term, prefix) {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)

	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

// Tokenize lower-cases and splits on whitespace. This is the single
// tokenization used for indexing, querying and similarity, so the three
// always agree.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
