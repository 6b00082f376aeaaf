package citation

import (
	"github.com/pincite/pincite/pkg/types"
)

// ContextKind selects which enclosing segment a Context carries.
type ContextKind string

const (
	// ContextParagraph includes the enclosing paragraph segment.
	ContextParagraph ContextKind = "paragraph"
	// ContextPage includes the enclosing page segment.
	ContextPage ContextKind = "page"
)

// Neighbor is a sentence adjacent to a cited segment.
type Neighbor struct {
	Offset    int    `json:"offset"`
	Reference string `json:"reference"`
	Content   string `json:"content"`
}

// Context is a resolved citation together with its surroundings.
type Context struct {
	Reference   string         `json:"reference"`
	Segment     *types.Segment `json:"segment"`
	Paragraph   *types.Segment `json:"paragraph,omitempty"`
	Page        *types.Segment `json:"page,omitempty"`
	Surrounding []Neighbor     `json:"surrounding,omitempty"`
}

// Context resolves a reference and gathers its enclosing paragraph or page
// plus up to three neighboring sentences. Each neighbor is resolved
// independently and silently omitted when absent. Returns nil when the
// reference itself does not resolve.
func (ix *Index) Context(reference string, kind ContextKind) *Context {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	seg := ix.resolveLocked(reference)
	if seg == nil {
		return nil
	}

	ctx := &Context{Reference: reference, Segment: seg}

	switch kind {
	case ContextPage:
		ctx.Page = ix.resolveLocked(seg.Reference(types.SegmentPage))
	default:
		ctx.Paragraph = ix.resolveLocked(seg.Reference(types.SegmentParagraph))
	}

	for _, offset := range []int{-1, 0, 1} {
		neighborAddr := types.DocumentAddress{
			DocumentID: seg.Address.DocumentID,
			Page:       seg.Address.Page,
			Section:    seg.Address.Section,
			Paragraph:  seg.Address.Paragraph,
			Sentence:   seg.Address.Sentence + offset,
		}
		ref := neighborAddr.Reference(types.SegmentSentence)
		if neighbor := ix.resolveLocked(ref); neighbor != nil {
			ctx.Surrounding = append(ctx.Surrounding, Neighbor{
				Offset:    offset,
				Reference: ref,
				Content:   neighbor.Content,
			})
		}
	}

	return ctx
}
