// Package config builds the server configuration from defaults, an optional
// JSON or YAML file, environment variables and command-line flags, in that
// order of precedence (later wins).
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/server/corpus"
)

// Config holds runtime settings for the ragkeeper server.
type Config struct {
	HTTPAddr  string
	GRPCAddr  string
	DevMode   bool
	LogLevel  string
	LogFormat string

	// Credential store: "memory", "postgres" or "sqlite".
	StorageDriver string
	DatabaseDSN   string
	SeedDemoUsers bool

	SecretKey      string
	AccessTokenTTL time.Duration
	// SecretGenerated is set by Validate when a dev-mode secret was made up.
	SecretGenerated bool

	TopK      int
	Overfetch int

	// Vector index: "memory" or "qdrant".
	IndexBackend     string
	QdrantURL        string
	QdrantCollection string
	QdrantAPIKey     string

	// IndexKeepUnrelated lets the memory index return passages with no
	// similarity to the query.
	IndexKeepUnrelated bool

	// Embedder: "tfidf" or "openai".
	EmbedderBackend string
	EmbeddingURL    string
	EmbeddingModel  string
	EmbeddingAPIKey string
	EmbeddingDim    int

	// CorpusURI is a local path or an s3://bucket/key URI of a JSONL snapshot.
	CorpusURI      string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool

	GenerationURL     string
	GenerationModel   string
	GenerationAPIKey  string
	GenerationTimeout time.Duration
	GenerationRetries int
}

// LoadDefaults populates Config with development defaults. The signing
// secret is deliberately left empty.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8000"
	c.GRPCAddr = ":50051"
	c.LogLevel = "info"
	c.LogFormat = "json"

	c.StorageDriver = "memory"
	c.SeedDemoUsers = true

	c.AccessTokenTTL = 30 * time.Minute

	c.TopK = 5
	c.Overfetch = 3

	c.IndexBackend = "memory"
	c.QdrantURL = "http://localhost:6333"
	c.QdrantCollection = "documents"

	c.EmbedderBackend = "tfidf"
	c.EmbeddingURL = "https://api.openai.com/v1"
	c.EmbeddingModel = "text-embedding-3-small"
	c.EmbeddingDim = 512

	c.CorpusURI = "data/corpus.jsonl"
	c.S3Region = "us-east-1"

	c.GenerationURL = "https://api.groq.com/openai/v1"
	c.GenerationModel = "llama-3.3-70b-versatile"
	c.GenerationTimeout = 30 * time.Second
	c.GenerationRetries = 1
}

// LoadConfig builds a validated Config from the process arguments and
// environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.LookupEnv)
}

// Load applies defaults, then the file named by -c/-config, then the
// environment, then flags, and finally validates the result.
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadShared is Load for offline tools such as ingestion: it reads the file
// and the environment but no server flags, and does not require a signing
// secret.
func LoadShared(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.validateBackends(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// randomSecret is a seam for tests.
var randomSecret = func() string {
	return base64.RawURLEncoding.EncodeToString(common.GenerateRandByteArray(32))
}

// Validate checks the configuration. An empty signing secret is fatal unless
// DevMode is on, in which case a random per-process secret is generated and
// SecretGenerated is set so the caller can warn about it.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		if !c.DevMode {
			return common.ErrSigningSecretMissing
		}
		c.SecretKey = randomSecret()
		c.SecretGenerated = true
	}

	if err := c.validateBackends(); err != nil {
		return err
	}

	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token ttl must be positive, got %s", c.AccessTokenTTL)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if c.Overfetch < 1 {
		return fmt.Errorf("overfetch must be at least 1, got %d", c.Overfetch)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("generation timeout must be positive, got %s", c.GenerationTimeout)
	}
	if c.GenerationRetries < 0 || c.GenerationRetries > 1 {
		return fmt.Errorf("generation retries must be 0 or 1, got %d", c.GenerationRetries)
	}
	return nil
}

func (c *Config) validateBackends() error {
	switch c.StorageDriver {
	case "memory":
	case "postgres", "sqlite":
		if c.DatabaseDSN == "" {
			return fmt.Errorf("storage driver %q requires a database DSN", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	switch c.IndexBackend {
	case "memory", "qdrant":
	default:
		return fmt.Errorf("unknown index backend %q", c.IndexBackend)
	}

	switch c.EmbedderBackend {
	case "tfidf", "openai":
	default:
		return fmt.Errorf("unknown embedder backend %q", c.EmbedderBackend)
	}
	return nil
}

// CorpusS3 returns the object storage settings used for s3:// corpus URIs.
func (c *Config) CorpusS3() corpus.S3Config {
	return corpus.S3Config{
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		UsePathStyle: c.S3UsePathStyle,
	}
}
