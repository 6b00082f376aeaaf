package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Validation errors
var (
	ErrEmptyDocumentID    = errors.New("document_id cannot be empty")
	ErrNegativePage       = errors.New("page cannot be negative")
	ErrInvalidCharRange   = errors.New("char_start cannot exceed char_end")
	ErrEmptyContent       = errors.New("content cannot be empty")
	ErrMalformedReference = errors.New("malformed citation reference")
	ErrEmptyQuery         = errors.New("query cannot be empty")
)

// SegmentType identifies the granularity of a text segment. The ordering is
// significant: each level includes all address components of the levels above
// it when rendered as a citation reference.
type SegmentType int

const (
	SegmentDocument SegmentType = iota
	SegmentPage
	SegmentSection
	SegmentParagraph
	SegmentSentence
	SegmentPhrase
	SegmentWord
	SegmentCharacter
)

var segmentTypeNames = [...]string{
	SegmentDocument:  "doc",
	SegmentPage:      "page",
	SegmentSection:   "section",
	SegmentParagraph: "para",
	SegmentSentence:  "sent",
	SegmentPhrase:    "phrase",
	SegmentWord:      "word",
	SegmentCharacter: "char",
}

// String returns the short wire name of the segment type.
func (t SegmentType) String() string {
	if t < SegmentDocument || int(t) >= len(segmentTypeNames) {
		return "unknown"
	}
	return segmentTypeNames[t]
}

// SegmentTypes lists all segment types in precision order.
func SegmentTypes() []SegmentType {
	return []SegmentType{
		SegmentDocument, SegmentPage, SegmentSection, SegmentParagraph,
		SegmentSentence, SegmentPhrase, SegmentWord, SegmentCharacter,
	}
}

// DocumentAddress is a hierarchical address for a span of document text.
// A nil Section means no section structure was detected on the page; all
// other components default to zero. Addresses are value types and must not
// be mutated after a segment has been constructed from them.
type DocumentAddress struct {
	DocumentID string `json:"document_id"`
	Page       int    `json:"page"`
	Section    *int   `json:"section,omitempty"`
	Paragraph  int    `json:"paragraph"`
	Sentence   int    `json:"sentence"`
	Phrase     int    `json:"phrase"`
	CharStart  int    `json:"char_start"`
	CharEnd    int    `json:"char_end"`
}

// Validate checks the address invariants.
func (a DocumentAddress) Validate() error {
	if a.DocumentID == "" {
		return ErrEmptyDocumentID
	}
	if a.Page < 0 {
		return ErrNegativePage
	}
	if a.CharStart > a.CharEnd {
		return ErrInvalidCharRange
	}
	return nil
}

// Entity is a typed span of text detected inside a segment.
type Entity struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Segment is an immutable span of document text with a hierarchical address.
// The content hash is computed once at construction and never changes, which
// makes segment IDs stable across rebuilds of any index that holds them.
type Segment struct {
	Address     DocumentAddress `json:"address"`
	Content     string          `json:"content"`
	Type        SegmentType     `json:"type"`
	ContentHash string          `json:"content_hash"`
	Entities    []Entity        `json:"entities,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// NewSegment constructs a segment and computes its content hash.
func NewSegment(address DocumentAddress, content string, segmentType SegmentType) *Segment {
	return &Segment{
		Address:     address,
		Content:     content,
		Type:        segmentType,
		ContentHash: HashContent(content),
	}
}

// ID returns the globally unique segment identifier: the reference at
// character precision plus the content hash. Two segments with identical
// text at different locations still get distinct IDs.
func (s *Segment) ID() string {
	return s.Address.Reference(SegmentCharacter) + "#" + s.ContentHash
}

// Reference renders the segment's citation reference at the given precision.
func (s *Segment) Reference(precision SegmentType) string {
	return s.Address.Reference(precision)
}

// HashContent returns the fixed-length content digest used for segment IDs
// and duplicate detection: the first 16 hex characters of SHA-256.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}

// SearchMode selects the lookup strategy for a document search.
type SearchMode string

const (
	// SearchModeExact unions the posting lists of every query token.
	SearchModeExact SearchMode = "exact"
	// SearchModeProximity requires all query tokens to co-occur within a
	// token window inside a segment.
	SearchModeProximity SearchMode = "proximity"
	// SearchModeEntity looks segments up by entity type.
	SearchModeEntity SearchMode = "entity"
	// SearchModeSemantic is reserved for embedding-based lookup and
	// currently returns no results.
	SearchModeSemantic SearchMode = "semantic"
	// SearchModeHybrid unions exact and proximity results. Default.
	SearchModeHybrid SearchMode = "hybrid"
)

// Valid reports whether the mode is one of the supported search modes.
func (m SearchMode) Valid() bool {
	switch m {
	case SearchModeExact, SearchModeProximity, SearchModeEntity, SearchModeSemantic, SearchModeHybrid:
		return true
	}
	return false
}
