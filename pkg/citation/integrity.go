package citation

import "fmt"

// IntegrityReport summarizes the health of a citation index. It is a
// diagnostic value: producing it never fails and never mutates the index.
type IntegrityReport struct {
	TotalSegments     int      `json:"total_segments"`
	AddressMappings   int      `json:"address_mappings"`
	ContentDuplicates int      `json:"content_duplicates"`
	HierarchyNodes    int      `json:"hierarchy_nodes"`
	Issues            []string `json:"issues,omitempty"`
}

// ValidateIntegrity counts orphaned address mappings and duplicate-content
// groups and reports them. A freshly built index over a document with no
// repeated text reports zero issues.
func (ix *Index) ValidateIntegrity() IntegrityReport {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	report := IntegrityReport{
		TotalSegments:   len(ix.segments),
		AddressMappings: len(ix.addressIndex),
		HierarchyNodes:  len(ix.hierarchyIndex),
	}

	for ref, id := range ix.addressIndex {
		if _, ok := ix.segments[id]; !ok {
			report.Issues = append(report.Issues, fmt.Sprintf("orphaned reference: %s -> %s", ref, id))
		}
	}

	for hash, ids := range ix.contentIndex {
		live := 0
		for id := range ids {
			if _, ok := ix.segments[id]; ok {
				live++
			}
		}
		if live > 1 {
			report.ContentDuplicates++
			report.Issues = append(report.Issues, fmt.Sprintf("duplicate content: %d segments share hash %s", live, hash))
		}
	}

	return report
}
