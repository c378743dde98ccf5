// Package search provides BM25 ranking over block analyses.
//
// It exists to:
//   - Keep block inspection and ranking separate concerns
//   - Let tool handlers rank blocks without re-analyzing or
//     re-indexing on every call
//
// # Usage
//
// The primary type is [BM25Searcher], fed one [Doc] per block:
//
//	searcher := search.NewBM25Searcher(search.BM25Config{})
//	defer searcher.Close()
//	matches, err := searcher.Search("carousel", 5, docs)
//
// # Configuration
//
// [BM25Config] allows customization of field boosts and safety limits:
//
//	cfg := search.BM25Config{
//	    NameBoost:     3,    // Boost block-name matches (default: 3)
//	    VariantsBoost: 2,    // Boost variant-name matches (default: 2)
//	    ClassesBoost:  2,    // Boost CSS class matches (default: 2)
//	    MaxDocs:       1000, // Limit documents to index (0 = unlimited)
//	    MaxDocTextLen: 5000, // Truncate long readme text (0 = unlimited)
//	}
//
// # Thread Safety
//
// BM25Searcher is safe for concurrent use. It uses an internal RWMutex
// to protect index state and caches the Bleve index keyed by a document
// fingerprint, only rebuilding when the block set changes.
//
// # Behavior
//
// Empty queries return the first N documents ordered by name. Non-empty
// queries use BM25 ranking with deterministic tie-breaking (score DESC,
// then name ASC).
package search
