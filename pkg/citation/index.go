// Package citation provides lookup and resolution of citation references
// against the segments of one or more documents.
//
// Resolution failure is an expected, frequent outcome: downstream consumers
// validate machine-generated citations, many of which point nowhere. Resolve
// therefore returns nil rather than an error when a reference is unknown.
package citation

import (
	"fmt"
	"sync"

	"github.com/pincite/pincite/pkg/types"
)

// Index maps citation references to segments and tracks the document
// hierarchy. Safe for concurrent use.
type Index struct {
	mu sync.RWMutex

	// segments maps segment ID to segment.
	segments map[string]*types.Segment
	// addressIndex maps a reference at any precision to a segment ID.
	// First writer wins: once a reference is bound it is never rebound,
	// which keeps the earliest (coarsest) mapping stable across inserts.
	addressIndex map[string]string
	// contentIndex maps a content hash to the IDs sharing it.
	contentIndex map[string]map[string]struct{}
	// hierarchyIndex maps a parent reference to its child references in
	// discovery order, without duplicates.
	hierarchyIndex map[string][]string
	hierarchySeen  map[string]map[string]struct{}
}

// NewIndex returns an empty citation index.
func NewIndex() *Index {
	return &Index{
		segments:       make(map[string]*types.Segment),
		addressIndex:   make(map[string]string),
		contentIndex:   make(map[string]map[string]struct{}),
		hierarchyIndex: make(map[string][]string),
		hierarchySeen:  make(map[string]map[string]struct{}),
	}
}

// AddSegments registers segments in input order. Re-adding a segment is
// idempotent for the hierarchy and address indexes.
func (ix *Index) AddSegments(segments []*types.Segment) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, seg := range segments {
		ix.addSegment(seg)
	}
}

func (ix *Index) addSegment(seg *types.Segment) {
	id := seg.ID()
	ix.segments[id] = seg

	for _, precision := range types.SegmentTypes() {
		ref := seg.Reference(precision)
		if _, bound := ix.addressIndex[ref]; !bound {
			ix.addressIndex[ref] = id
		}
	}

	ids, ok := ix.contentIndex[seg.ContentHash]
	if !ok {
		ids = make(map[string]struct{})
		ix.contentIndex[seg.ContentHash] = ids
	}
	ids[id] = struct{}{}

	ix.linkHierarchy(seg)
}

// linkHierarchy records the parent→child chain derived from the segment's
// own address: document → page → section (when present) → paragraph, and
// down to the sentence for sentence-or-finer segments.
func (ix *Index) linkHierarchy(seg *types.Segment) {
	addr := seg.Address

	refs := []string{
		fmt.Sprintf("doc:%s", addr.DocumentID),
		addr.Reference(types.SegmentPage),
	}
	if addr.Section != nil {
		refs = append(refs, addr.Reference(types.SegmentSection))
	}
	refs = append(refs, addr.Reference(types.SegmentParagraph))
	if seg.Type >= types.SegmentSentence && seg.Type <= types.SegmentWord {
		refs = append(refs, addr.Reference(types.SegmentSentence))
	}

	for i := 0; i < len(refs)-1; i++ {
		ix.addChild(refs[i], refs[i+1])
	}
}

func (ix *Index) addChild(parent, child string) {
	seen, ok := ix.hierarchySeen[parent]
	if !ok {
		seen = make(map[string]struct{})
		ix.hierarchySeen[parent] = seen
	}
	if _, dup := seen[child]; dup {
		return
	}
	seen[child] = struct{}{}
	ix.hierarchyIndex[parent] = append(ix.hierarchyIndex[parent], child)
}

// Resolve returns the segment a reference points at, or nil when the
// reference is unbound. It never returns an error.
func (ix *Index) Resolve(reference string) *types.Segment {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.resolveLocked(reference)
}

func (ix *Index) resolveLocked(reference string) *types.Segment {
	id, ok := ix.addressIndex[reference]
	if !ok {
		return nil
	}
	return ix.segments[id]
}

// Children returns the child references of a parent reference in discovery
// order.
func (ix *Index) Children(parent string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	children := ix.hierarchyIndex[parent]
	out := make([]string, len(children))
	copy(out, children)
	return out
}

// SegmentCount returns the number of indexed segments.
func (ix *Index) SegmentCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.segments)
}
