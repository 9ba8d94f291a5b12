// Package memory is an in-process vector index using brute-force cosine
// similarity. It suits corpora of a few thousand passages.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
)

// Index keeps passages and their vectors in insertion order.
type Index struct {
	embedder      embedding.Embedder
	keepUnrelated bool

	mu       sync.RWMutex
	passages []models.Passage
	vectors  [][]float64
}

// Option configures an Index.
type Option func(*Index)

// WithUnrelated makes Search return passages whose similarity to the query
// is zero or negative instead of dropping them.
func WithUnrelated(keep bool) Option {
	return func(ix *Index) { ix.keepUnrelated = keep }
}

func New(embedder embedding.Embedder, opts ...Option) *Index {
	ix := &Index{embedder: embedder}
	for _, o := range opts {
		o(ix)
	}
	return ix
}

// Len is the number of stored passages.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.passages)
}

// Add embeds passages and stores them.
func (ix *Index) Add(ctx context.Context, passages []models.Passage) error {
	vectors := make([][]float64, len(passages))
	for i, p := range passages {
		v, err := ix.embedder.Embed(ctx, p.Text)
		if err != nil {
			return err
		}
		vectors[i] = v
	}
	return ix.Upsert(ctx, passages, vectors)
}

// Upsert stores passages with precomputed vectors. A passage whose ID is
// already present replaces the stored one in place.
func (ix *Index) Upsert(_ context.Context, passages []models.Passage, vectors [][]float64) error {
	if len(passages) != len(vectors) {
		return errors.New("passages and vectors length mismatch")
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	pos := make(map[string]int, len(ix.passages))
	for i, p := range ix.passages {
		pos[p.ID] = i
	}
	for i, p := range passages {
		if j, ok := pos[p.ID]; ok {
			ix.passages[j], ix.vectors[j] = p, vectors[i]
			continue
		}
		pos[p.ID] = len(ix.passages)
		ix.passages = append(ix.passages, p)
		ix.vectors = append(ix.vectors, vectors[i])
	}
	return nil
}

// Search embeds query and returns the n best passages. Passages with no
// similarity at all are left out unless the index was built WithUnrelated.
// Equal scores keep insertion order.
func (ix *Index) Search(ctx context.Context, query string, n int) ([]models.ScoredPassage, error) {
	if n <= 0 {
		return nil, nil
	}
	q, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	ix.mu.RLock()
	scored := make([]models.ScoredPassage, 0, len(ix.passages))
	for i := range ix.passages {
		score := embedding.Cosine(q, ix.vectors[i])
		if score <= 0 && !ix.keepUnrelated {
			continue
		}
		scored = append(scored, models.ScoredPassage{Passage: ix.passages[i], Score: score})
	}
	ix.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if n < len(scored) {
		scored = scored[:n]
	}
	return scored, nil
}
