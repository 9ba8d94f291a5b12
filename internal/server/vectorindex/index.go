// Package vectorindex is the boundary to the nearest-neighbour store that
// holds embedded passages.
package vectorindex

import (
	"context"

	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
)

// Index returns up to n passages most similar to query, best first.
type Index interface {
	Search(ctx context.Context, query string, n int) ([]models.ScoredPassage, error)
}

// Writer stores passages with precomputed vectors. vectors[i] belongs to
// passages[i].
type Writer interface {
	Upsert(ctx context.Context, passages []models.Passage, vectors [][]float64) error
}
