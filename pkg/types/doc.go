// Package types defines the core value types of the citation system: the
// hierarchical DocumentAddress, the citation reference wire format, and the
// immutable Segment produced by deterministic segmentation.
//
// The citation reference string is the contract embedded in generated text
// by downstream consumers and resolved back through the citation index. It
// must stay bit-exact:
//
//	doc:{document_id}:p{page}[.sec{n}][.para{n}][.sent{n}][.phrase{n}][.char{start}-{end}]
//
// Encoding is lossy below character precision; ParseReference(Reference(a,
// SegmentCharacter)) round-trips any fully specified address.
package types
