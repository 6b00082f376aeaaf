package registry

import (
	"sort"

	"github.com/pincite/pincite/pkg/types"
)

// previewLength is the truncation size for navigation previews.
const previewLength = 50

// NavigationEntry is one sentence preview inside a paragraph.
type NavigationEntry struct {
	Sentence  int            `json:"sentence"`
	Reference string         `json:"reference"`
	Preview   string         `json:"preview"`
	Entities  []types.Entity `json:"entities,omitempty"`
}

// NavigationParagraph groups the entries of one paragraph.
type NavigationParagraph struct {
	Paragraph int               `json:"paragraph"`
	Entries   []NavigationEntry `json:"entries"`
}

// NavigationPage groups the paragraphs of one page.
type NavigationPage struct {
	Page       int                   `json:"page"`
	Paragraphs []NavigationParagraph `json:"paragraphs"`
}

// NavigationMap is an ordered preview structure over a document's indexed
// segments, for UI traversal. It is derived on demand and not persisted.
type NavigationMap struct {
	DocumentID string           `json:"document_id"`
	Pages      []NavigationPage `json:"pages"`
}

// NavigationMap groups a document's segments by page and paragraph with
// 50-character previews. Unknown documents yield nil.
func (r *Registry) NavigationMap(documentID string) *NavigationMap {
	cache := r.Cache(documentID)
	if cache == nil {
		return nil
	}
	ix := cache.Index()
	if ix == nil {
		return nil
	}

	type paraKey struct{ page, paragraph int }
	grouped := make(map[paraKey][]NavigationEntry)

	for _, seg := range ix.Segments() {
		key := paraKey{seg.Address.Page, seg.Address.Paragraph}
		grouped[key] = append(grouped[key], NavigationEntry{
			Sentence:  seg.Address.Sentence,
			Reference: seg.Reference(types.SegmentSentence),
			Preview:   preview(seg.Content),
			Entities:  seg.Entities,
		})
	}

	keys := make([]paraKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].page != keys[j].page {
			return keys[i].page < keys[j].page
		}
		return keys[i].paragraph < keys[j].paragraph
	})

	nav := &NavigationMap{DocumentID: documentID}
	for _, k := range keys {
		entries := grouped[k]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Sentence < entries[j].Sentence
		})

		if n := len(nav.Pages); n == 0 || nav.Pages[n-1].Page != k.page {
			nav.Pages = append(nav.Pages, NavigationPage{Page: k.page})
		}
		last := &nav.Pages[len(nav.Pages)-1]
		last.Paragraphs = append(last.Paragraphs, NavigationParagraph{
			Paragraph: k.paragraph,
			Entries:   entries,
		})
	}

	return nav
}

func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}
	return content[:previewLength] + "..."
}
