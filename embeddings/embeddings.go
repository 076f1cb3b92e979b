// Package embeddings converts chunk text and keyword queries into the vectors
// the store indexes.
package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"newsbrief/config"
)

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// NewEmbedder builds the OpenAI-backed embedder from the loaded config.
func NewEmbedder(cfg config.Config) (Embedder, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return &openAIEmbedder{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     openai.EmbeddingModel(cfg.EmbeddingModel),
		dimension: cfg.EmbeddingDimension,
	}, nil
}

type openAIEmbedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// Embed returns one vector per input text, in input order. Every vector is
// checked against the configured dimension so a model/schema mismatch fails
// here instead of at insert time.
func (e *openAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("embed %d texts: %w", len(texts), err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, datum := range resp.Data {
		if e.dimension > 0 && len(datum.Embedding) != e.dimension {
			return nil, fmt.Errorf("embedding %d has %d dimensions, collection expects %d", i, len(datum.Embedding), e.dimension)
		}
		vectors[i] = datum.Embedding
	}

	return vectors, nil
}

var _ Embedder = (*openAIEmbedder)(nil)
