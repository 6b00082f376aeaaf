package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference encodes the address as a citation reference string at the given
// precision. Components are appended strictly in hierarchy order and only
// when the precision reaches their level. The section component additionally
// requires the address to carry a section, since pages without detected
// section structure leave it unset.
//
// Wire format:
//
//	doc:{document_id}:p{page}[.sec{n}][.para{n}][.sent{n}][.phrase{n}][.char{start}-{end}]
func (a DocumentAddress) Reference(precision SegmentType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "doc:%s:p%d", a.DocumentID, a.Page)

	if precision >= SegmentSection && a.Section != nil {
		fmt.Fprintf(&b, ".sec%d", *a.Section)
	}
	if precision >= SegmentParagraph {
		fmt.Fprintf(&b, ".para%d", a.Paragraph)
	}
	if precision >= SegmentSentence {
		fmt.Fprintf(&b, ".sent%d", a.Sentence)
	}
	if precision >= SegmentPhrase {
		fmt.Fprintf(&b, ".phrase%d", a.Phrase)
	}
	if precision >= SegmentCharacter {
		fmt.Fprintf(&b, ".char%d-%d", a.CharStart, a.CharEnd)
	}

	return b.String()
}

// ParseReference decodes a citation reference back into an address.
// It fails with ErrMalformedReference when the string does not start with
// "doc:" or lacks a document id and page token. Unknown component prefixes
// are skipped so newer encoders stay readable by older parsers; components
// with unparseable numbers are treated as absent.
func ParseReference(reference string) (DocumentAddress, error) {
	parts := strings.Split(reference, ":")
	if len(parts) < 3 || parts[0] != "doc" || parts[1] == "" {
		return DocumentAddress{}, fmt.Errorf("%w: %q", ErrMalformedReference, reference)
	}

	addr := DocumentAddress{DocumentID: parts[1]}
	pageSeen := false

	for _, part := range strings.Split(parts[2], ".") {
		switch {
		case strings.HasPrefix(part, "phrase"):
			if n, err := strconv.Atoi(part[len("phrase"):]); err == nil {
				addr.Phrase = n
			}
		case strings.HasPrefix(part, "para"):
			if n, err := strconv.Atoi(part[len("para"):]); err == nil {
				addr.Paragraph = n
			}
		case strings.HasPrefix(part, "sent"):
			if n, err := strconv.Atoi(part[len("sent"):]); err == nil {
				addr.Sentence = n
			}
		case strings.HasPrefix(part, "sec"):
			if n, err := strconv.Atoi(part[len("sec"):]); err == nil {
				addr.Section = &n
			}
		case strings.HasPrefix(part, "char"):
			start, end, ok := parseCharRange(part[len("char"):])
			if ok {
				addr.CharStart = start
				addr.CharEnd = end
			}
		case strings.HasPrefix(part, "p"):
			if n, err := strconv.Atoi(part[1:]); err == nil {
				addr.Page = n
				pageSeen = true
			}
		}
	}

	if !pageSeen {
		return DocumentAddress{}, fmt.Errorf("%w: missing page token in %q", ErrMalformedReference, reference)
	}

	return addr, nil
}

// parseCharRange parses "start-end"; a bare "start" means a zero-width range.
func parseCharRange(s string) (start, end int, ok bool) {
	bounds := strings.SplitN(s, "-", 2)
	start, err := strconv.Atoi(bounds[0])
	if err != nil {
		return 0, 0, false
	}
	end = start
	if len(bounds) == 2 {
		if n, err := strconv.Atoi(bounds[1]); err == nil {
			end = n
		}
	}
	return start, end, true
}
