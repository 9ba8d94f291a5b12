package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/corpus"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/vectorindex"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers   = 4
	DefaultBatchSize = 64
)

// collectionEnsurer is implemented by indexes that must create their
// collection before the first upsert.
type collectionEnsurer interface {
	EnsureCollection(ctx context.Context, dimension int) error
}

// Pipeline chunks documents, saves the corpus snapshot and, when a writer
// is set, embeds and upserts every passage.
type Pipeline struct {
	Splitter  *Splitter
	Store     corpus.Store
	Embedder  embedding.Embedder
	Writer    vectorindex.Writer
	Workers   int
	BatchSize int
	Log       logging.Logger
}

type Result struct {
	Documents int
	Passages  int
	Upserted  int
}

// Chunk splits every document and numbers its chunks "<source>_<i>".
func Chunk(docs []Document, s *Splitter) []models.Passage {
	var out []models.Passage
	for _, d := range docs {
		for i, text := range s.Split(d.Text) {
			out = append(out, models.Passage{
				ID:       fmt.Sprintf("%s_%d", d.Source, i),
				SourceID: d.Source,
				Category: d.Category,
				Text:     text,
			})
		}
	}
	return out
}

func (p *Pipeline) Run(ctx context.Context, docs []Document) (Result, error) {
	log := p.Log
	if log == nil {
		log = logging.Nop()
	}
	splitter := p.Splitter
	if splitter == nil {
		splitter = NewSplitter(DefaultChunkSize, DefaultOverlap)
	}

	passages := Chunk(docs, splitter)
	res := Result{Documents: len(docs), Passages: len(passages)}
	if len(passages) == 0 {
		return res, errors.New("no passages produced; is the data directory empty?")
	}

	if err := p.Store.Save(ctx, passages); err != nil {
		return res, fmt.Errorf("save corpus: %w", err)
	}
	log.Info(ctx, "corpus saved", "documents", res.Documents, "passages", res.Passages)

	if p.Writer == nil {
		return res, nil
	}
	if p.Embedder == nil {
		return res, errors.New("an index writer needs an embedder")
	}

	texts := make([]string, len(passages))
	for i, ps := range passages {
		texts[i] = ps.Text
	}
	if err := p.Embedder.Prepare(texts); err != nil {
		return res, fmt.Errorf("prepare embedder: %w", err)
	}

	vectors, err := p.embedAll(ctx, texts)
	if err != nil {
		return res, err
	}

	if ce, ok := p.Writer.(collectionEnsurer); ok {
		if err := ce.EnsureCollection(ctx, len(vectors[0])); err != nil {
			return res, fmt.Errorf("ensure collection: %w", err)
		}
	}

	batch := p.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	for start := 0; start < len(passages); start += batch {
		end := min(start+batch, len(passages))
		if err := p.Writer.Upsert(ctx, passages[start:end], vectors[start:end]); err != nil {
			return res, fmt.Errorf("upsert passages %d-%d: %w", start, end-1, err)
		}
		res.Upserted = end
		log.Debug(ctx, "batch upserted", "upserted", end, "total", len(passages))
	}
	log.Info(ctx, "index updated", "upserted", res.Upserted, "embedder", p.Embedder.Name())
	return res, nil
}

// embedAll embeds texts with at most Workers calls in flight. The first
// failure cancels the rest.
func (p *Pipeline) embedAll(ctx context.Context, texts []string) ([][]float64, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	vectors := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			v, err := p.Embedder.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed passage %d: %w", i, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
