package ingest

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/ragkeeper/internal/flagx"
	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/config"
	"github.com/dmitrijs2005/ragkeeper/internal/server/corpus"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding/openai"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding/tfidf"
	"github.com/dmitrijs2005/ragkeeper/internal/server/vectorindex/qdrant"
)

const DefaultDataDir = "resources/data"

// Options are the ingestion flags layered on top of the shared config.
type Options struct {
	DataDir   string
	CorpusURI string
	Upsert    bool
	Workers   int
}

// ParseOptions reads the ingestion flags:
//
//	-data string  directory with .txt and .md documents
//	-i string     corpus snapshot URI (defaults to the configured one)
//	-upsert       also embed and upsert passages into Qdrant
//	-w int        concurrent embedding calls
func ParseOptions(args []string, cfg *config.Config) (Options, error) {
	opts := Options{DataDir: DefaultDataDir, CorpusURI: cfg.CorpusURI, Workers: DefaultWorkers}

	args = flagx.FilterArgs(args, []string{"-data", "-i", "-upsert", "-w"})
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.DataDir, "data", opts.DataDir, "documents directory")
	fs.StringVar(&opts.CorpusURI, "i", opts.CorpusURI, "corpus snapshot (path or s3://bucket/key)")
	fs.BoolVar(&opts.Upsert, "upsert", opts.Upsert, "upsert into qdrant")
	fs.IntVar(&opts.Workers, "w", opts.Workers, "embedding workers")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Workers < 1 {
		return opts, fmt.Errorf("workers must be at least 1, got %d", opts.Workers)
	}
	return opts, nil
}

func newEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	if cfg.EmbedderBackend == "openai" {
		return openai.New(openai.Config{
			BaseURL:    cfg.EmbeddingURL,
			APIKey:     cfg.EmbeddingAPIKey,
			Model:      cfg.EmbeddingModel,
			Dimensions: cfg.EmbeddingDim,
		})
	}
	return tfidf.New(), nil
}

// Execute loads the documents, writes the corpus snapshot and, with
// opts.Upsert, fills the Qdrant collection.
func Execute(ctx context.Context, cfg *config.Config, opts Options, log logging.Logger) (Result, error) {
	docs, err := LoadDocuments(opts.DataDir)
	if err != nil {
		return Result{}, fmt.Errorf("load documents: %w", err)
	}
	log.Info(ctx, "documents loaded", "dir", opts.DataDir, "documents", len(docs))

	store, err := corpus.Open(ctx, opts.CorpusURI, cfg.CorpusS3())
	if err != nil {
		return Result{}, err
	}

	p := &Pipeline{
		Splitter: NewSplitter(DefaultChunkSize, DefaultOverlap),
		Store:    store,
		Workers:  opts.Workers,
		Log:      log,
	}
	if opts.Upsert {
		emb, err := newEmbedder(cfg)
		if err != nil {
			return Result{}, fmt.Errorf("embedder: %w", err)
		}
		p.Embedder = emb
		p.Writer = qdrant.New(qdrant.Config{URL: cfg.QdrantURL, APIKey: cfg.QdrantAPIKey, Collection: cfg.QdrantCollection}, emb)
	}
	return p.Run(ctx, docs)
}
