// Package embedding defines how text is turned into vectors for similarity
// search.
package embedding

import (
	"context"
	"math"
)

// Embedder converts text into a vector. Implementations may need a
// preparation pass over the corpus before Embed is usable.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Cosine returns the cosine similarity of a and b over their common prefix.
// Zero vectors have similarity 0.
func Cosine(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
