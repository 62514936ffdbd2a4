package knowledge

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("knowledge base unavailable")

// Chunk is a unit of guide text with its provenance.
type Chunk struct {
	ID      string
	Source  string
	Page    int
	Index   int
	Content string
}

// Passage is a chunk returned for a query, ranked from 1.
type Passage struct {
	Content string
	Source  string
	Page    int
	Rank    int
	Score   float64
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
	Count(ctx context.Context) (int, error)
}
