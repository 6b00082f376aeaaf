// Package pincite provides deterministic document citation addressing and
// per-document search for Go.
//
// Pincite segments documents into a hierarchy of addressable spans (page,
// section, paragraph, sentence, phrase, character range), assigns each span
// a stable citation reference, and serves exact, proximity, entity and
// hybrid searches over per-document in-memory indexes. Segmentation is
// fully deterministic: processing the same pages always yields the same
// references and the same segment IDs.
//
// # Basic Usage
//
// Create a client with a document store:
//
//	db, err := store.NewBadgerStore("./pincite_db")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := pincite.NewClient(&pincite.Config{Store: db})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
// # Processing Documents
//
// Documents are page-keyed raw text. Processing persists the pages,
// segments them, and builds the citation and search indexes:
//
//	result, err := client.ProcessDocument(ctx, pincite.Document{
//		ID:    "smith-v-jones",
//		Title: "Smith v. Jones",
//		Pages: map[int]string{1: pageOne, 2: pageTwo},
//	})
//
// # Citation References
//
// Every segment gets a citation reference of the form
//
//	doc:{document_id}:p{page}[.sec{n}][.para{n}][.sent{n}][.phrase{n}][.char{start}-{end}]
//
// which resolves back to the exact span it was minted from:
//
//	seg, err := client.Resolve("doc:smith-v-jones:p1.para0.sent1")
//	ctx, err := client.Context("doc:smith-v-jones:p1.para0.sent1", citation.ContextParagraph)
//
// # Searching
//
// Searches run against one document at a time:
//
//	results := client.Search("smith-v-jones", "breach of contract", types.SearchModeHybrid)
//	for _, seg := range results {
//		fmt.Printf("%s: %s\n", seg.Reference(types.SegmentSentence), seg.Content)
//	}
//
// # Architecture
//
// The library follows a modular architecture:
//
//   - pkg/types: addresses, segments, references and search modes
//   - pkg/segmenter: deterministic page/section/paragraph/sentence splitting
//   - pkg/citation: reference resolution, hierarchy and integrity checks
//   - pkg/search: per-document inverted, positional and entity indexes
//   - pkg/registry: document-to-index map, history and optimization
//   - pkg/store: persistent document storage
//
// The HTTP server in pkg/server and the CLI in cmd/ are thin layers over
// this package.
package pincite
