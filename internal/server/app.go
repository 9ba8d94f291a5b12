// Package server wires the configured components together and runs the HTTP
// and gRPC transports until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/answer"
	"github.com/dmitrijs2005/ragkeeper/internal/server/auth"
	"github.com/dmitrijs2005/ragkeeper/internal/server/config"
	"github.com/dmitrijs2005/ragkeeper/internal/server/corpus"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding/openai"
	"github.com/dmitrijs2005/ragkeeper/internal/server/embedding/tfidf"
	"github.com/dmitrijs2005/ragkeeper/internal/server/generation"
	"github.com/dmitrijs2005/ragkeeper/internal/server/generation/groq"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ragkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/ragkeeper/internal/server/retrieval"
	"github.com/dmitrijs2005/ragkeeper/internal/server/services"
	"github.com/dmitrijs2005/ragkeeper/internal/server/vectorindex"
	"github.com/dmitrijs2005/ragkeeper/internal/server/vectorindex/memory"
	"github.com/dmitrijs2005/ragkeeper/internal/server/vectorindex/qdrant"

	gs "github.com/dmitrijs2005/ragkeeper/internal/server/grpc"
	hs "github.com/dmitrijs2005/ragkeeper/internal/server/httpapi"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	tokens       *auth.TokenService
	authService  *services.AuthService
	queryService *services.QueryService
}

// NewApp builds every component from c. The caller owns the App and must
// call Close.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	repo, err := app.initUserStore(ctx)
	if err != nil {
		return nil, err
	}

	index, err := app.initIndex(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.tokens = auth.NewTokenService([]byte(c.SecretKey), c.AccessTokenTTL)

	gen := groq.New(groq.Config{BaseURL: c.GenerationURL, APIKey: c.GenerationAPIKey, Model: c.GenerationModel})
	if !gen.Configured() {
		logger.Warn(ctx, "generation API key is not set, answers will quote passages instead")
	}

	retriever := retrieval.New(index, logger.With("module", "retrieval"), c.TopK, c.Overfetch)
	answerer := answer.New(gen, logger.With("module", "answer"),
		answer.WithParams(generation.DefaultParams()),
		answer.WithTimeout(c.GenerationTimeout),
		answer.WithRetries(c.GenerationRetries),
	)

	app.authService = services.NewAuthService(repo, app.tokens, logger.With("module", "auth"))
	app.queryService = services.NewQueryService(app.tokens, retriever, answerer, c.TopK, logger.With("module", "query"))
	return app, nil
}

func (app *App) initUserStore(ctx context.Context) (users.Repository, error) {
	var repo users.Repository
	seed := func(ctx context.Context, r users.Repository) (int, error) {
		return users.Seed(ctx, r, users.DemoUsers())
	}

	switch app.config.StorageDriver {
	case repomanager.DriverMemory:
		repo = users.NewMemoryRepository()
	default:
		m, err := repomanager.New(app.config.StorageDriver)
		if err != nil {
			return nil, err
		}
		db, err := repomanager.Open(ctx, m, app.config.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		repo = m.Users(db)
		seed = func(ctx context.Context, _ users.Repository) (int, error) {
			return repomanager.Seed(ctx, db, m, users.DemoUsers())
		}
	}

	if app.config.SeedDemoUsers {
		n, err := seed(ctx, repo)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}
		app.logger.Info(ctx, "demo users seeded", "created", n, "driver", app.config.StorageDriver)
	}
	return repo, nil
}

func (app *App) loadCorpus(ctx context.Context) ([]models.Passage, error) {
	c := app.config
	store, err := corpus.Open(ctx, c.CorpusURI, c.CorpusS3())
	if err != nil {
		return nil, err
	}

	passages, err := store.Load(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		app.logger.Warn(ctx, "corpus snapshot not found, starting with an empty corpus", "uri", c.CorpusURI)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	app.logger.Info(ctx, "corpus loaded", "uri", c.CorpusURI, "passages", len(passages))
	return passages, nil
}

func (app *App) initEmbedder(passages []models.Passage) (embedding.Embedder, error) {
	c := app.config
	switch c.EmbedderBackend {
	case "openai":
		return openai.New(openai.Config{
			BaseURL:    c.EmbeddingURL,
			APIKey:     c.EmbeddingAPIKey,
			Model:      c.EmbeddingModel,
			Dimensions: c.EmbeddingDim,
		})
	default:
		emb := tfidf.New()
		if len(passages) > 0 {
			if err := emb.Prepare(passageTexts(passages)); err != nil {
				return nil, err
			}
		}
		return emb, nil
	}
}

func (app *App) initIndex(ctx context.Context) (vectorindex.Index, error) {
	c := app.config
	passages, err := app.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}

	// TF-IDF query vectors only match stored ones when both use the
	// vocabulary of the same corpus.
	if c.IndexBackend == "qdrant" && c.EmbedderBackend == "tfidf" && len(passages) == 0 {
		return nil, errors.New("qdrant with the tfidf embedder needs the corpus snapshot the index was built from")
	}

	emb, err := app.initEmbedder(passages)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	switch c.IndexBackend {
	case "qdrant":
		return qdrant.New(qdrant.Config{URL: c.QdrantURL, APIKey: c.QdrantAPIKey, Collection: c.QdrantCollection}, emb), nil
	default:
		ix := memory.New(emb, memory.WithUnrelated(c.IndexKeepUnrelated))
		if len(passages) > 0 {
			if err := ix.Add(ctx, passages); err != nil {
				return nil, fmt.Errorf("index corpus: %w", err)
			}
		}
		return ix, nil
	}
}

func passageTexts(ps []models.Passage) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Text
	}
	return out
}

// Close releases the database, if any.
func (app *App) Close() {
	if app.db != nil {
		_ = app.db.Close()
		app.db = nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.authService, app.queryService, app.tokens)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewHTTPServer(app.config.HTTPAddr, app.logger, app.authService, app.queryService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a signal arrives or a
// server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
}
