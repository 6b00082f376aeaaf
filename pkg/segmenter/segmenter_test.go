package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pincite/pincite/pkg/types"
)

func sentenceSegments(segments []*types.Segment) []*types.Segment {
	var out []*types.Segment
	for _, s := range segments {
		if s.Type == types.SegmentSentence {
			out = append(out, s)
		}
	}
	return out
}

func TestSegmentDocumentTwoPages(t *testing.T) {
	s := New()
	segments := s.SegmentDocument("doc-x", map[int]string{
		1: "Alpha Beta. Gamma Delta.",
		2: "Alpha Gamma.",
	})

	sentences := sentenceSegments(segments)
	require.Len(t, sentences, 3)

	assert.Equal(t, "Alpha Beta.", sentences[0].Content)
	assert.Equal(t, "doc:doc-x:p1.para0.sent0", sentences[0].Reference(types.SegmentSentence))
	assert.Equal(t, "Gamma Delta.", sentences[1].Content)
	assert.Equal(t, "doc:doc-x:p1.para0.sent1", sentences[1].Reference(types.SegmentSentence))
	assert.Equal(t, "Alpha Gamma.", sentences[2].Content)
	assert.Equal(t, "doc:doc-x:p2.para0.sent0", sentences[2].Reference(types.SegmentSentence))
}

func TestSegmentDocumentPageOrderWithGaps(t *testing.T) {
	s := New()
	segments := s.SegmentDocument("doc-x", map[int]string{
		7: "Page seven has content worth reading.",
		2: "Page two has content worth reading.",
		0: "Page zero has content worth reading.",
	})

	var pages []int
	for _, seg := range segments {
		if seg.Type == types.SegmentPage {
			pages = append(pages, seg.Address.Page)
		}
	}
	assert.Equal(t, []int{0, 2, 7}, pages)
}

func TestSegmentPageEmptyInput(t *testing.T) {
	s := New()
	assert.Empty(t, s.SegmentPage("doc-x", 0, ""))
	assert.Empty(t, s.SegmentPage("doc-x", 0, "   \n\t  "))
}

func TestShortSentenceDroppedButConsumesOffset(t *testing.T) {
	s := New()
	// "Go wins!" is 8 chars and is dropped; the survivors keep their
	// ordinals and the second survivor's offset accounts for the gap.
	segments := s.SegmentPage("doc-x", 1, "Go wins! The quick brown fox jumps. Every lazy dog sleeps.")

	sentences := sentenceSegments(segments)
	require.Len(t, sentences, 2)

	assert.Equal(t, "The quick brown fox jumps.", sentences[0].Content)
	assert.Equal(t, 1, sentences[0].Address.Sentence)
	assert.Equal(t, 9, sentences[0].Address.CharStart)

	assert.Equal(t, "Every lazy dog sleeps.", sentences[1].Content)
	assert.Equal(t, 2, sentences[1].Address.Sentence)
	assert.Equal(t, 36, sentences[1].Address.CharStart)
}

func TestSentenceOffsetsStrictlyIncreasing(t *testing.T) {
	s := New()
	text := "First sentence of the paragraph. Second sentence follows here. Third sentence closes it out."
	sentences := sentenceSegments(s.SegmentPage("doc-x", 0, text))
	require.True(t, len(sentences) > 1)

	for i := 1; i < len(sentences); i++ {
		assert.Greater(t, sentences[i].Address.CharStart, sentences[i-1].Address.CharStart)
		assert.Equal(t, sentences[i-1].Address.Paragraph, sentences[i].Address.Paragraph)
	}
}

func TestParagraphSplitOnBlankLines(t *testing.T) {
	s := New()
	text := "First paragraph with enough text to matter.\n\nSecond paragraph with enough text to matter."
	segments := s.SegmentPage("doc-x", 0, text)

	var paragraphs []*types.Segment
	for _, seg := range segments {
		if seg.Type == types.SegmentParagraph {
			paragraphs = append(paragraphs, seg)
		}
	}
	require.Len(t, paragraphs, 2)
	assert.Equal(t, 0, paragraphs[0].Address.Paragraph)
	assert.Equal(t, 1, paragraphs[1].Address.Paragraph)
	// Offset of the second paragraph = len(first) + blank-line separator.
	assert.Equal(t, paragraphs[0].Address.CharEnd+2, paragraphs[1].Address.CharStart)
}

func TestSectionSplitAcceptedForClearHeadings(t *testing.T) {
	s := New()
	text := "INTRODUCTION\nThis opening section carries enough prose to pass the non-trivial threshold easily.\n" +
		"METHODS AND MATERIALS\nThis second section also carries enough prose to pass the non-trivial threshold."
	segments := s.SegmentPage("doc-x", 0, text)

	var sections []*int
	for _, seg := range segments {
		if seg.Type == types.SegmentParagraph {
			sections = append(sections, seg.Address.Section)
		}
	}
	require.Len(t, sections, 2)
	require.NotNil(t, sections[0])
	require.NotNil(t, sections[1])
	assert.Equal(t, 0, *sections[0])
	assert.Equal(t, 1, *sections[1])
}

func TestSectionSplitRejectedForTrivialPieces(t *testing.T) {
	s := New()
	text := "HEADER\nShort piece.\nNEXT\nAlso short."
	segments := s.SegmentPage("doc-x", 0, text)

	for _, seg := range segments {
		assert.Nil(t, seg.Address.Section, "trivial pieces must not produce sections")
	}
}

func TestSegmentDocumentDeterministic(t *testing.T) {
	s := New()
	pages := map[int]string{
		0: "Determinism matters here. The same input must yield the same output.\n\nAnother paragraph entirely.",
		3: "A later page with different content. It also has two sentences.",
	}

	first := s.SegmentDocument("doc-x", pages)
	second := s.SegmentDocument("doc-x", pages)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
		assert.Equal(t, first[i].Content, second[i].Content)
	}
}

func TestSplitSentencesNoTrailingCapital(t *testing.T) {
	// "etc. and" has no capital after the period, so no boundary.
	got := splitSentences("We list items, etc. and keep going until the end.")
	require.Len(t, got, 1)
}
