package knowledge

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

const (
	DefaultK   = 3
	probeQuery = "wellness"
)

// Retriever is the availability-gated front of a Searcher. Availability is
// decided once at startup; later query failures do not revoke it.
type Retriever struct {
	searcher  Searcher
	k         int
	available bool
	logger    *log.Logger
}

// NewRetriever probes searcher and marks the retriever available only if it
// holds at least one chunk and answers a query. A nil searcher yields an
// unavailable retriever.
func NewRetriever(ctx context.Context, searcher Searcher, k int, logger *log.Logger) *Retriever {
	if k <= 0 {
		k = DefaultK
	}
	r := &Retriever{searcher: searcher, k: k, logger: logger}
	if searcher == nil {
		logger.Info("knowledge base disabled: no index")
		return r
	}
	n, err := searcher.Count(ctx)
	if err != nil {
		logger.Warn("knowledge base disabled: count failed", "error", err)
		return r
	}
	if n == 0 {
		logger.Info("knowledge base disabled: index is empty, run build-index with guides in place")
		return r
	}
	if _, err := searcher.Search(ctx, probeQuery, 1); err != nil {
		logger.Warn("knowledge base disabled: probe query failed", "error", err)
		return r
	}
	r.available = true
	logger.Info("knowledge base enabled", "chunks", n, "k", k)
	return r
}

func (r *Retriever) Available() bool { return r.available }

func (r *Retriever) K() int { return r.k }

// Retrieve returns the top passages for query using the configured k.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Passage, error) {
	return r.Search(ctx, query, r.k)
}

func (r *Retriever) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	if !r.available {
		return nil, ErrUnavailable
	}
	passages, err := r.searcher.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("search guides: %w", err)
	}
	return passages, nil
}
