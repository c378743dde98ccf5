package search

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	index "github.com/blevesearch/bleve_index_api"
)

// Default field boosts. Name matches dominate, variant and class
// matches edge out plain description/readme hits.
const (
	DefaultNameBoost     = 3.0
	DefaultVariantsBoost = 2.0
	DefaultClassesBoost  = 2.0
)

// BM25Config customizes ranking and safety limits for a BM25Searcher.
// Zero values select the defaults; limits of 0 mean unlimited.
type BM25Config struct {
	NameBoost     float64
	VariantsBoost float64
	ClassesBoost  float64

	// MaxDocs caps how many documents are indexed per search.
	MaxDocs int
	// MaxDocTextLen truncates each document's free text before
	// indexing.
	MaxDocTextLen int
}

// BM25Searcher ranks block documents with BM25 over an in-memory
// Bleve index. The index is cached and rebuilt only when the document
// set's fingerprint changes, so repeated searches over a stable block
// set pay the indexing cost once.
type BM25Searcher struct {
	config BM25Config

	mu          sync.RWMutex
	index       bleve.Index
	fingerprint string
}

// NewBM25Searcher creates a searcher with the given configuration.
func NewBM25Searcher(config BM25Config) *BM25Searcher {
	if config.NameBoost == 0 {
		config.NameBoost = DefaultNameBoost
	}
	if config.VariantsBoost == 0 {
		config.VariantsBoost = DefaultVariantsBoost
	}
	if config.ClassesBoost == 0 {
		config.ClassesBoost = DefaultClassesBoost
	}
	return &BM25Searcher{config: config}
}

// Search ranks docs against query and returns at most limit matches.
// An empty (or blank) query skips ranking and returns the first limit
// documents ordered by name; a non-positive limit means no cap.
func (s *BM25Searcher) Search(query string, limit int, docs []Doc) (Matches, error) {
	if s.config.MaxDocs > 0 && len(docs) > s.config.MaxDocs {
		docs = docs[:s.config.MaxDocs]
	}
	if limit <= 0 {
		limit = len(docs)
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return firstByName(docs, limit), nil
	}

	fp := computeFingerprint(docs)

	// Fast path: query the cached index under the read lock. Holding
	// it for the query's duration keeps a concurrent rebuild from
	// closing the index underneath us.
	s.mu.RLock()
	if s.index != nil && s.fingerprint == fp {
		defer s.mu.RUnlock()
		return s.query(s.index, trimmed, limit, docs)
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil || s.fingerprint != fp {
		index, err := s.buildIndex(docs)
		if err != nil {
			return nil, err
		}
		if s.index != nil {
			_ = s.index.Close()
		}
		s.index = index
		s.fingerprint = fp
	}
	return s.query(s.index, trimmed, limit, docs)
}

// Close releases the cached index. The searcher stays usable; the
// next search rebuilds.
func (s *BM25Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	s.fingerprint = ""
	return err
}

func (s *BM25Searcher) buildIndex(docs []Doc) (bleve.Index, error) {
	mapping := bleve.NewIndexMapping()
	mapping.ScoringModel = index.BM25Scoring
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("search: creating index: %w", err)
	}

	batch := idx.NewBatch()
	for _, doc := range docs {
		text := doc.Text
		if s.config.MaxDocTextLen > 0 && len(text) > s.config.MaxDocTextLen {
			text = text[:s.config.MaxDocTextLen]
		}
		err := batch.Index(doc.Name, map[string]any{
			"name":        doc.Name,
			"description": doc.Description,
			"variants":    strings.Join(doc.Variants, " "),
			"classes":     strings.Join(doc.Classes, " "),
			"text":        text,
		})
		if err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("search: indexing %q: %w", doc.Name, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("search: indexing batch: %w", err)
	}
	return idx, nil
}

func (s *BM25Searcher) query(idx bleve.Index, query string, limit int, docs []Doc) (Matches, error) {
	byName := make(map[string]Doc, len(docs))
	for _, doc := range docs {
		byName[doc.Name] = doc
	}

	name := bleve.NewMatchQuery(query)
	name.SetField("name")
	name.SetBoost(s.config.NameBoost)

	variants := bleve.NewMatchQuery(query)
	variants.SetField("variants")
	variants.SetBoost(s.config.VariantsBoost)

	classes := bleve.NewMatchQuery(query)
	classes.SetField("classes")
	classes.SetBoost(s.config.ClassesBoost)

	description := bleve.NewMatchQuery(query)
	description.SetField("description")

	text := bleve.NewMatchQuery(query)
	text.SetField("text")

	// Over-fetch so the deterministic sort sees every hit, then trim.
	request := bleve.NewSearchRequestOptions(
		bleve.NewDisjunctionQuery(name, variants, classes, description, text),
		len(docs), 0, false,
	)
	result, err := idx.Search(request)
	if err != nil {
		return nil, fmt.Errorf("search: query %q: %w", query, err)
	}

	matches := make(Matches, 0, len(result.Hits))
	for _, hit := range result.Hits {
		doc, ok := byName[hit.ID]
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Name:        doc.Name,
			Score:       hit.Score,
			Description: doc.Description,
			Variants:    doc.Variants,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func firstByName(docs []Doc, limit int) Matches {
	sorted := slices.Clone(docs)
	slices.SortFunc(sorted, func(a, b Doc) int { return strings.Compare(a.Name, b.Name) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	matches := make(Matches, len(sorted))
	for i, doc := range sorted {
		matches[i] = Match{Name: doc.Name, Description: doc.Description, Variants: doc.Variants}
	}
	return matches
}
