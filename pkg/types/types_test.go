package types

import (
	"testing"
)

func TestDocumentAddressValidate(t *testing.T) {
	tests := []struct {
		name    string
		addr    DocumentAddress
		wantErr error
	}{
		{
			name:    "valid address",
			addr:    DocumentAddress{DocumentID: "doc-1", Page: 0, CharStart: 0, CharEnd: 10},
			wantErr: nil,
		},
		{
			name:    "empty document id",
			addr:    DocumentAddress{Page: 1},
			wantErr: ErrEmptyDocumentID,
		},
		{
			name:    "negative page",
			addr:    DocumentAddress{DocumentID: "doc-1", Page: -1},
			wantErr: ErrNegativePage,
		},
		{
			name:    "inverted char range",
			addr:    DocumentAddress{DocumentID: "doc-1", Page: 0, CharStart: 5, CharEnd: 2},
			wantErr: ErrInvalidCharRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.addr.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSegmentComputesHash(t *testing.T) {
	addr := DocumentAddress{DocumentID: "doc-1", Page: 1, CharEnd: 11}
	seg := NewSegment(addr, "Alpha Beta.", SegmentSentence)

	if len(seg.ContentHash) != 16 {
		t.Fatalf("ContentHash length = %d, want 16", len(seg.ContentHash))
	}
	if seg.ContentHash != HashContent("Alpha Beta.") {
		t.Errorf("ContentHash = %q, want content-derived digest", seg.ContentHash)
	}

	same := NewSegment(DocumentAddress{DocumentID: "doc-1", Page: 2, CharEnd: 11}, "Alpha Beta.", SegmentSentence)
	if same.ContentHash != seg.ContentHash {
		t.Error("identical content produced different hashes")
	}
	if same.ID() == seg.ID() {
		t.Error("segments at different locations share an ID")
	}
}

func TestSegmentTypeString(t *testing.T) {
	tests := []struct {
		typ  SegmentType
		want string
	}{
		{SegmentDocument, "doc"},
		{SegmentPage, "page"},
		{SegmentSection, "section"},
		{SegmentParagraph, "para"},
		{SegmentSentence, "sent"},
		{SegmentPhrase, "phrase"},
		{SegmentWord, "word"},
		{SegmentCharacter, "char"},
		{SegmentType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("SegmentType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestSearchModeValid(t *testing.T) {
	for _, m := range []SearchMode{SearchModeExact, SearchModeProximity, SearchModeEntity, SearchModeSemantic, SearchModeHybrid} {
		if !m.Valid() {
			t.Errorf("SearchMode(%q).Valid() = false, want true", m)
		}
	}
	if SearchMode("fuzzy").Valid() {
		t.Error(`SearchMode("fuzzy").Valid() = true, want false`)
	}
}
