// Package qdrant is a vector index backed by a Qdrant server over its REST
// API. Queries are embedded locally with the configured embedder.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/netx"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
	"github.com/google/uuid"
)

// Payload keys stored with every point.
const (
	keyPassageID = "passage_id"
	keySource    = "source"
	keyCategory  = "category"
	keyText      = "text"
)

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

type Index struct {
	base       string
	apiKey     string
	collection string
	embedder   embedding.Embedder
	client     *http.Client
}

func New(cfg Config, embedder embedding.Embedder) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		base:       strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		embedder:   embedder,
		client:     &http.Client{Timeout: timeout},
	}
}

// PointID maps a passage ID onto the UUID Qdrant requires. The mapping is
// stable, so re-ingesting a passage overwrites its point.
func PointID(passageID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ragkeeper:"+passageID)).String()
}

func (ix *Index) headers() map[string]string {
	if ix.apiKey == "" {
		return nil
	}
	return map[string]string{"api-key": ix.apiKey}
}

func (ix *Index) collectionURL(suffix string) string {
	return ix.base + "/collections/" + url.PathEscape(ix.collection) + suffix
}

// EnsureCollection creates the collection with cosine distance unless it
// already exists.
func (ix *Index) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("qdrant: invalid dimension")
	}

	err := netx.DoJSON(ctx, ix.client, http.MethodGet, ix.collectionURL(""), ix.headers(), nil, nil)
	if err == nil {
		return nil
	}
	var se *netx.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		return err
	}

	body := map[string]any{
		"vectors": map[string]any{"size": dimension, "distance": "Cosine"},
	}
	return netx.DoJSON(ctx, ix.client, http.MethodPut, ix.collectionURL(""), ix.headers(), body, nil)
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float64      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Upsert writes passages with their vectors and waits for the write to be
// applied.
func (ix *Index) Upsert(ctx context.Context, passages []models.Passage, vectors [][]float64) error {
	if len(passages) != len(vectors) {
		return errors.New("qdrant: passages and vectors length mismatch")
	}
	if len(passages) == 0 {
		return nil
	}

	points := make([]point, len(passages))
	for i, p := range passages {
		points[i] = point{
			ID:     PointID(p.ID),
			Vector: vectors[i],
			Payload: map[string]any{
				keyPassageID: p.ID,
				keySource:    p.SourceID,
				keyCategory:  string(p.Category),
				keyText:      p.Text,
			},
		}
	}

	err := netx.DoJSON(ctx, ix.client, http.MethodPut, ix.collectionURL("/points?wait=true"), ix.headers(),
		map[string]any{"points": points}, nil)
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search embeds query and asks Qdrant for the n nearest points.
func (ix *Index) Search(ctx context.Context, query string, n int) ([]models.ScoredPassage, error) {
	if n <= 0 {
		return nil, nil
	}
	vec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	req := map[string]any{
		"vector":       vec,
		"limit":        n,
		"with_payload": true,
	}
	var resp searchResponse
	if err := netx.DoJSON(ctx, ix.client, http.MethodPost, ix.collectionURL("/points/search"), ix.headers(), req, &resp); err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	out := make([]models.ScoredPassage, 0, len(resp.Result))
	for _, r := range resp.Result {
		out = append(out, models.ScoredPassage{
			Passage: models.Passage{
				ID:       payloadString(r.Payload, keyPassageID),
				SourceID: payloadString(r.Payload, keySource),
				// A missing label is general; an unknown one is restricted.
				Category: policy.ParseCategory(payloadString(r.Payload, keyCategory)),
				Text:     payloadString(r.Payload, keyText),
			},
			Score: r.Score,
		})
	}
	return out, nil
}

func payloadString(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}
