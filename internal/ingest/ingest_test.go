package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/ragkeeper/internal/server/corpus"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding/tfidf"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
	"github.com/dmitrijs2005/ragkeeper/internal/server/vectorindex/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocs() []Document {
	return []Document{
		{Source: "engineering_master_doc.md", Category: policy.CategoryEngineering,
			Text: strings.Repeat("Kubernetes clusters run every service. ", 10)},
		{Source: "employee_handbook.md", Category: policy.CategoryHR,
			Text: "Employees get twenty days of paid leave."},
	}
}

type recordingWriter struct {
	mu        sync.Mutex
	dim       int
	batches   []int
	passages  []models.Passage
	upsertErr error
}

func (w *recordingWriter) EnsureCollection(_ context.Context, dim int) error {
	w.dim = dim
	return nil
}

func (w *recordingWriter) Upsert(_ context.Context, ps []models.Passage, vs [][]float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.upsertErr != nil {
		return w.upsertErr
	}
	if len(ps) != len(vs) {
		return errors.New("length mismatch")
	}
	w.batches = append(w.batches, len(ps))
	w.passages = append(w.passages, ps...)
	return nil
}

func TestChunk_IDsAndMetadata(t *testing.T) {
	ps := Chunk(sampleDocs(), NewSplitter(100, 20))

	require.Greater(t, len(ps), 2)
	assert.Equal(t, "engineering_master_doc.md_0", ps[0].ID)
	assert.Equal(t, "engineering_master_doc.md_1", ps[1].ID)
	last := ps[len(ps)-1]
	assert.Equal(t, "employee_handbook.md_0", last.ID)
	assert.Equal(t, "employee_handbook.md", last.SourceID)
	assert.Equal(t, policy.CategoryHR, last.Category)
}

func TestRun_SnapshotOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	p := &Pipeline{Splitter: NewSplitter(100, 20), Store: corpus.NewFileStore(path)}

	res, err := p.Run(context.Background(), sampleDocs())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Documents)
	assert.Zero(t, res.Upserted)

	saved, err := corpus.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved, res.Passages)
}

func TestRun_EmbedsAndUpsertsInBatches(t *testing.T) {
	w := &recordingWriter{}
	emb := tfidf.New()
	p := &Pipeline{
		Splitter:  NewSplitter(100, 20),
		Store:     corpus.NewFileStore(filepath.Join(t.TempDir(), "c.jsonl")),
		Embedder:  emb,
		Writer:    w,
		Workers:   2,
		BatchSize: 2,
	}

	res, err := p.Run(context.Background(), sampleDocs())
	require.NoError(t, err)
	assert.Equal(t, res.Passages, res.Upserted)
	assert.Equal(t, emb.Dimension(), w.dim)
	assert.Len(t, w.passages, res.Passages)
	for _, n := range w.batches {
		assert.LessOrEqual(t, n, 2)
	}
}

func TestRun_IntoMemoryIndex(t *testing.T) {
	emb := tfidf.New()
	ix := memory.New(emb)
	p := &Pipeline{
		Store:    corpus.NewFileStore(filepath.Join(t.TempDir(), "c.jsonl")),
		Embedder: emb,
		Writer:   ix,
	}

	_, err := p.Run(context.Background(), sampleDocs())
	require.NoError(t, err)

	got, err := ix.Search(context.Background(), "paid leave", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "employee_handbook.md", got[0].SourceID)
}

type failingEmbedder struct{}

func (failingEmbedder) Name() string           { return "failing" }
func (failingEmbedder) Prepare([]string) error { return nil }
func (failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("quota exceeded")
}

func TestRun_Errors(t *testing.T) {
	store := corpus.NewFileStore(filepath.Join(t.TempDir(), "c.jsonl"))

	_, err := (&Pipeline{Store: store}).Run(context.Background(), nil)
	assert.Error(t, err)

	_, err = (&Pipeline{Store: store, Embedder: failingEmbedder{}, Writer: &recordingWriter{}}).Run(context.Background(), sampleDocs())
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = (&Pipeline{Store: store, Writer: &recordingWriter{}}).Run(context.Background(), sampleDocs())
	assert.ErrorContains(t, err, "embedder")

	w := &recordingWriter{upsertErr: errors.New("qdrant down")}
	_, err = (&Pipeline{Store: store, Embedder: tfidf.New(), Writer: w}).Run(context.Background(), sampleDocs())
	assert.ErrorContains(t, err, "qdrant down")
}
