// Package retrieval selects the passages a role may see for a query.
package retrieval

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
	"github.com/dmitrijs2005/ragkeeper/internal/server/vectorindex"
)

const (
	DefaultTopK      = 5
	DefaultOverfetch = 3
)

// Retriever over-fetches neighbours from the index and keeps the best ones
// whose category the role is allowed to read.
type Retriever struct {
	index     vectorindex.Index
	log       logging.Logger
	topK      int
	overfetch int
}

// New returns a Retriever. Non-positive topK and overfetch fall back to the
// package defaults.
func New(index vectorindex.Index, log logging.Logger, topK, overfetch int) *Retriever {
	if topK < 1 {
		topK = DefaultTopK
	}
	if overfetch < 1 {
		overfetch = DefaultOverfetch
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Retriever{index: index, log: log, topK: topK, overfetch: overfetch}
}

// Retrieve returns at most k passages visible to role, best first. It never
// fails: an index error is logged and yields an empty result. k < 1 uses the
// configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, role policy.Role, k int) []models.ScoredPassage {
	if k < 1 {
		k = r.topK
	}
	allowed := policy.AllowedCategories(role)

	hits, err := r.index.Search(ctx, query, k*r.overfetch)
	if err != nil {
		r.log.Error(ctx, "vector search failed", "error", err)
		return []models.ScoredPassage{}
	}

	sortHits(hits)

	out := make([]models.ScoredPassage, 0, k)
	restricted := 0
	for _, h := range hits {
		if h.Category == policy.CategoryRestricted {
			restricted++
		}
		if !allowed.Contains(h.Category) {
			continue
		}
		out = append(out, h)
		if len(out) == k {
			break
		}
	}

	if restricted > 0 {
		r.log.Warn(ctx, "dropped passages with an unrecognised category", "count", restricted)
	}
	r.log.Debug(ctx, "retrieved passages",
		"role", string(role), "candidates", len(hits), "kept", len(out))
	return out
}

// sortHits orders by score descending, then source id, then passage id.
// Equal scores are not ordered consistently by every index (Qdrant's HNSW
// search may return them in any order), so the index order only settles
// full ties.
func sortHits(hits []models.ScoredPassage) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		return a.ID < b.ID
	})
}
