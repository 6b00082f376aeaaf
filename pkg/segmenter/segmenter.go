// Package segmenter turns raw page text into a deterministic tree of
// addressable segments: page, section, paragraph and sentence spans.
//
// Segmentation is a pure function of the input text. Identical input always
// yields identical addresses and identical segment ordering, so citation
// references stay stable across re-ingestion. Nothing here depends on map
// iteration order, wall-clock time or randomness.
package segmenter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/pincite/pincite/pkg/types"
)

// minSentenceLength is the survival threshold for sentence segments.
// Shorter sentences are dropped silently but still consume character
// offsets, so the addresses of later sentences do not shift.
const minSentenceLength = 10

// minSectionLength is the minimum trimmed size of every piece for a
// heading-based section split to be accepted.
const minSectionLength = 50

var paragraphPattern = regexp.MustCompile(`\n\s*\n+`)

// Segmenter deterministically segments document pages.
type Segmenter struct {
	tagger *EntityTagger
}

// New returns a segmenter with the default entity patterns.
func New() *Segmenter {
	return &Segmenter{tagger: NewEntityTagger()}
}

// NewWithPatterns returns a segmenter whose entity tagger uses the given
// YAML pattern table instead of the embedded default.
func NewWithPatterns(patternsYAML []byte) (*Segmenter, error) {
	tagger, err := NewEntityTaggerFromYAML(patternsYAML)
	if err != nil {
		return nil, err
	}
	return &Segmenter{tagger: tagger}, nil
}

// SegmentDocument segments every page of a document, in ascending page
// order. Page numbers may have gaps. Empty or whitespace-only pages produce
// zero segments. Pages are processed concurrently but the result is stitched
// back in page order, so the output is identical to a sequential pass.
func (s *Segmenter) SegmentDocument(documentID string, pages map[int]string) []*types.Segment {
	pageNumbers := make([]int, 0, len(pages))
	for n := range pages {
		pageNumbers = append(pageNumbers, n)
	}
	sort.Ints(pageNumbers)

	perPage := make([][]*types.Segment, len(pageNumbers))

	var g errgroup.Group
	for i, n := range pageNumbers {
		i, n := i, n
		g.Go(func() error {
			perPage[i] = s.SegmentPage(documentID, n, pages[n])
			return nil
		})
	}
	// Page workers never fail; the group is used purely for the join.
	_ = g.Wait()

	var segments []*types.Segment
	for _, ps := range perPage {
		segments = append(segments, ps...)
	}
	return segments
}

// SegmentPage segments a single page into page, section, paragraph and
// sentence segments.
func (s *Segmenter) SegmentPage(documentID string, page int, content string) []*types.Segment {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var segments []*types.Segment

	pageAddr := types.DocumentAddress{
		DocumentID: documentID,
		Page:       page,
		CharStart:  0,
		CharEnd:    len(content),
	}
	segments = append(segments, types.NewSegment(pageAddr, content, types.SegmentPage))

	sections := splitSections(content)
	for secIdx, sectionContent := range sections {
		sectionAddr := types.DocumentAddress{
			DocumentID: documentID,
			Page:       page,
		}
		if len(sections) > 1 {
			idx := secIdx
			sectionAddr.Section = &idx
		}
		segments = append(segments, s.segmentParagraphs(sectionAddr, sectionContent)...)
	}

	return segments
}

// segmentParagraphs splits section content on blank-line boundaries and
// emits a paragraph segment per non-empty piece, then descends into
// sentences. Character offsets are relative to the section content.
func (s *Segmenter) segmentParagraphs(base types.DocumentAddress, content string) []*types.Segment {
	var segments []*types.Segment

	var paragraphs []string
	for _, p := range paragraphPattern.Split(content, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	offset := 0
	for paraIdx, paragraph := range paragraphs {
		paraAddr := types.DocumentAddress{
			DocumentID: base.DocumentID,
			Page:       base.Page,
			Section:    base.Section,
			Paragraph:  paraIdx,
			CharStart:  offset,
			CharEnd:    offset + len(paragraph),
		}
		segments = append(segments, types.NewSegment(paraAddr, paragraph, types.SegmentParagraph))
		segments = append(segments, s.segmentSentences(paraAddr, paragraph)...)

		offset += len(paragraph) + 2 // blank-line separator
	}

	return segments
}

// segmentSentences splits a paragraph into sentences and emits a segment per
// sentence that survives the length threshold. Dropped sentences keep their
// ordinal and their characters still advance the offset.
func (s *Segmenter) segmentSentences(para types.DocumentAddress, paragraph string) []*types.Segment {
	var segments []*types.Segment

	offset := 0
	for sentIdx, sentence := range splitSentences(paragraph) {
		if len(sentence) < minSentenceLength {
			offset += len(sentence) + 1
			continue
		}

		sentAddr := types.DocumentAddress{
			DocumentID: para.DocumentID,
			Page:       para.Page,
			Section:    para.Section,
			Paragraph:  para.Paragraph,
			Sentence:   sentIdx,
			CharStart:  para.CharStart + offset,
			CharEnd:    para.CharStart + offset + len(sentence),
		}
		seg := types.NewSegment(sentAddr, sentence, types.SegmentSentence)
		seg.Entities = s.tagger.Tag(sentence)
		segments = append(segments, seg)

		offset += len(sentence) + 1
	}

	return segments
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace and a capital letter. Go's regexp has no lookaround, so the
// boundary scan is done by hand over runes.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string

	start, i := 0, 0
	for i < len(runes) {
		r := runes[i]
		if r == '.' || r == '!' || r == '?' {
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			if j > i+1 && j < len(runes) && unicode.IsUpper(runes[j]) {
				if piece := strings.TrimSpace(string(runes[start : i+1])); piece != "" {
					out = append(out, piece)
				}
				start, i = j, j
				continue
			}
		}
		i++
	}
	if piece := strings.TrimSpace(string(runes[start:])); piece != "" {
		out = append(out, piece)
	}

	return out
}

// splitSections attempts to split page content on heading-like line
// boundaries: numbered headings ("3. Results") or all-caps lines. The split
// is accepted only when it produces at least two pieces that are all
// non-trivial; otherwise the whole page is one section.
func splitSections(content string) []string {
	lines := strings.Split(content, "\n")

	var pieces []string
	var current []string
	for i, line := range lines {
		if i > 0 && isHeadingLine(line) && len(current) > 0 {
			pieces = append(pieces, strings.Join(current, "\n"))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		pieces = append(pieces, strings.Join(current, "\n"))
	}

	if len(pieces) < 2 {
		return []string{content}
	}

	trimmed := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if len(p) <= minSectionLength {
			return []string{content}
		}
		trimmed = append(trimmed, p)
	}
	return trimmed
}

var numberedHeading = regexp.MustCompile(`^\d+\.\s`)

// isHeadingLine reports whether a line looks like a section heading:
// a numbered heading or a short all-caps line.
func isHeadingLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if numberedHeading.MatchString(line) {
		return true
	}

	hasLetter := false
	for _, r := range line {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r):
			hasLetter = true
		case unicode.IsSpace(r) || unicode.IsDigit(r) || r == ':' || r == '-':
			// allowed in headings
		default:
			return false
		}
	}
	return hasLetter && len(line) >= 3 && len(line) <= 80
}
