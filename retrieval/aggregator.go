// Package retrieval fans keyword queries out to the vector store and merges
// the ranked result streams into one deduplicated, relevance-sorted corpus.
package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"

	"newsbrief/chunking"
	"newsbrief/embeddings"
	"newsbrief/vectorstore"
)

const defaultResultsPerKeyword = 10

// Result is one deduplicated chunk across all keyword queries. Relevance is
// the best (1 - distance) any query achieved for it; Keywords lists every
// keyword whose query surfaced it, in first-seen order.
type Result struct {
	ChunkID   string
	Text      string
	Metadata  vectorstore.Metadata
	Relevance float64
	Keywords  []string
}

// Aggregator runs one similarity query per keyword and merges the streams by
// composite chunk identity.
type Aggregator struct {
	embedder embeddings.Embedder
	store    vectorstore.Store
	logger   *log.Logger
}

func NewAggregator(embedder embeddings.Embedder, store vectorstore.Store, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Default()
	}
	return &Aggregator{embedder: embedder, store: store, logger: logger}
}

// accumulator holds the merge state threaded through keyword processing.
// Insertion order is tracked explicitly so equal-relevance results keep a
// deterministic first-seen ordering.
type accumulator struct {
	byID    map[string]int
	results []Result
}

func newAccumulator() *accumulator {
	return &accumulator{byID: make(map[string]int)}
}

// absorb merges one hit for one keyword. A new identity inserts a fresh
// result; a known identity always accumulates the keyword but only replaces
// text, metadata and score when the new relevance is strictly better, so ties
// keep the earlier record.
func (acc *accumulator) absorb(keyword string, hit vectorstore.Hit) {
	chunkID := chunking.ChunkID(hit.Metadata.VideoID, hit.Metadata.ChunkStartTime)
	relevance := 1 - hit.Distance

	idx, seen := acc.byID[chunkID]
	if !seen {
		acc.byID[chunkID] = len(acc.results)
		acc.results = append(acc.results, Result{
			ChunkID:   chunkID,
			Text:      hit.Document,
			Metadata:  hit.Metadata,
			Relevance: relevance,
			Keywords:  []string{keyword},
		})
		return
	}

	result := &acc.results[idx]
	if !containsKeyword(result.Keywords, keyword) {
		result.Keywords = append(result.Keywords, keyword)
	}
	if relevance > result.Relevance {
		result.Text = hit.Document
		result.Metadata = hit.Metadata
		result.Relevance = relevance
	}
}

// Aggregate embeds each keyword in input order, queries the store, and folds
// every hit into the accumulator. The returned slice is sorted by descending
// relevance with first-seen order breaking ties. Keywords with no hits simply
// contribute nothing; an empty return means "no results", not a fault.
func (a *Aggregator) Aggregate(ctx context.Context, keywords []string, perKeyword int) ([]Result, error) {
	if a.embedder == nil {
		return nil, fmt.Errorf("embedder is not configured")
	}
	if a.store == nil {
		return nil, fmt.Errorf("vector store is not configured")
	}
	if perKeyword <= 0 {
		perKeyword = defaultResultsPerKeyword
	}

	acc := newAccumulator()
	for _, keyword := range keywords {
		a.logger.Printf("searching: %s", keyword)

		vectors, err := a.embedder.Embed(ctx, []string{keyword})
		if err != nil {
			return nil, fmt.Errorf("embed keyword %q: %w", keyword, err)
		}
		if len(vectors) == 0 {
			return nil, fmt.Errorf("embedder returned no vector for %q", keyword)
		}

		hits, err := a.store.Query(ctx, vectors[0], perKeyword)
		if err != nil {
			return nil, fmt.Errorf("query keyword %q: %w", keyword, err)
		}

		for _, hit := range hits {
			acc.absorb(keyword, hit)
		}
	}

	results := acc.results
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	a.logger.Printf("found %d unique transcript chunks", len(results))
	return results, nil
}

func containsKeyword(keywords []string, keyword string) bool {
	for _, k := range keywords {
		if k == keyword {
			return true
		}
	}
	return false
}
