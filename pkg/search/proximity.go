package search

import "sort"

// AddProximityEdge appends a weighted link to a segment's proximity list.
// Edges stay sorted by descending score (ties broken by ID so repeated
// optimization runs converge) and the list is capped. Duplicate targets
// keep their highest score.
//
// This is the only mutation allowed on a published index; it is advisory
// pre-computation and is serialized by the index's own lock, so readers of
// the rest of the index are never blocked.
func (ix *Index) AddProximityEdge(segmentID string, edge Edge) {
	ix.proximityMu.Lock()
	defer ix.proximityMu.Unlock()

	edges := ix.proximity[segmentID]
	for i, existing := range edges {
		if existing.ID == edge.ID {
			if edge.Score > existing.Score {
				edges[i].Score = edge.Score
			}
			ix.sortEdges(segmentID, edges)
			return
		}
	}

	edges = append(edges, edge)
	ix.sortEdges(segmentID, edges)
}

func (ix *Index) sortEdges(segmentID string, edges []Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Score != edges[j].Score {
			return edges[i].Score > edges[j].Score
		}
		return edges[i].ID < edges[j].ID
	})
	if len(edges) > maxProximityEdges {
		edges = edges[:maxProximityEdges]
	}
	ix.proximity[segmentID] = edges
}

// ProximityEdges returns a copy of a segment's proximity list, highest
// score first.
func (ix *Index) ProximityEdges(segmentID string) []Edge {
	ix.proximityMu.Lock()
	defer ix.proximityMu.Unlock()

	edges := ix.proximity[segmentID]
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// JaccardSimilarity computes the Jaccard similarity of two texts over their
// tokenized word sets. Returns a value in [0, 1].
func JaccardSimilarity(a, b string) float64 {
	wordsA := make(map[string]struct{})
	for _, w := range Tokenize(a) {
		wordsA[w] = struct{}{}
	}
	wordsB := make(map[string]struct{})
	for _, w := range Tokenize(b) {
		wordsB[w] = struct{}{}
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
