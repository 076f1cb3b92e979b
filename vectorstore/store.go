// Package vectorstore persists embedded transcript chunks and answers
// similarity queries over them.
package vectorstore

import (
	"context"
	"errors"
)

// ErrCollectionMissing reports that the chunk collection has not been built
// yet. It is a fatal precondition, distinct from a query with no hits.
var ErrCollectionMissing = errors.New("chunk collection not found; run the index command first")

// Metadata is the provenance stored alongside each indexed document. It is
// the subset of the chunk record the retrieval and rendering stages need.
type Metadata struct {
	Channel            string  `json:"channel"`
	VideoTitle         string  `json:"video_title"`
	VideoURL           string  `json:"video_url"`
	VideoID            string  `json:"video_id"`
	PublishedAt        string  `json:"published_at"`
	ChunkStartTime     float64 `json:"chunk_start_time"`
	ChunkEndTime       float64 `json:"chunk_end_time"`
	VideoPublishedDate string  `json:"video_published_date"`
}

// Hit is one ranked query result. Distance is the store's cosine distance;
// callers derive relevance as 1 - Distance.
type Hit struct {
	Document string
	Metadata Metadata
	Distance float64
}

// Store is the narrow contract the pipeline depends on. Add aligns its four
// slices by index; Query returns hits ranked by ascending distance.
type Store interface {
	Add(ctx context.Context, ids []string, embeddings [][]float32, documents []string, metadatas []Metadata) error
	Query(ctx context.Context, embedding []float32, k int) ([]Hit, error)
}
