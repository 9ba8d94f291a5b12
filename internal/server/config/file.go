package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/ragkeeper/internal/flagx"
	"github.com/dmitrijs2005/ragkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// strings such as "30m" or integer nanoseconds.
type FileConfig struct {
	HTTPAddr  string `json:"http_addr" yaml:"http_addr"`
	GRPCAddr  string `json:"grpc_addr" yaml:"grpc_addr"`
	DevMode   bool   `json:"dev_mode" yaml:"dev_mode"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`

	StorageDriver string `json:"storage_driver" yaml:"storage_driver"`
	DatabaseDSN   string `json:"database_dsn" yaml:"database_dsn"`
	SeedDemoUsers bool   `json:"seed_demo_users" yaml:"seed_demo_users"`

	SecretKey      string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenTTL timex.Duration `json:"access_token_ttl" yaml:"access_token_ttl"`

	TopK      int `json:"top_k" yaml:"top_k"`
	Overfetch int `json:"overfetch" yaml:"overfetch"`

	IndexBackend     string `json:"index_backend" yaml:"index_backend"`
	QdrantURL        string `json:"qdrant_url" yaml:"qdrant_url"`
	QdrantCollection string `json:"qdrant_collection" yaml:"qdrant_collection"`
	QdrantAPIKey     string `json:"qdrant_api_key" yaml:"qdrant_api_key"`

	IndexKeepUnrelated bool `json:"index_keep_unrelated" yaml:"index_keep_unrelated"`

	EmbedderBackend string `json:"embedder_backend" yaml:"embedder_backend"`
	EmbeddingURL    string `json:"embedding_url" yaml:"embedding_url"`
	EmbeddingModel  string `json:"embedding_model" yaml:"embedding_model"`
	EmbeddingAPIKey string `json:"embedding_api_key" yaml:"embedding_api_key"`
	EmbeddingDim    int    `json:"embedding_dim" yaml:"embedding_dim"`

	CorpusURI      string `json:"corpus_uri" yaml:"corpus_uri"`
	S3Region       string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey    string `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3UsePathStyle bool   `json:"s3_use_path_style" yaml:"s3_use_path_style"`

	GenerationURL     string         `json:"generation_url" yaml:"generation_url"`
	GenerationModel   string         `json:"generation_model" yaml:"generation_model"`
	GenerationAPIKey  string         `json:"generation_api_key" yaml:"generation_api_key"`
	GenerationTimeout timex.Duration `json:"generation_timeout" yaml:"generation_timeout"`
	GenerationRetries int            `json:"generation_retries" yaml:"generation_retries"`
}

// parseFile overlays the file named by -c/-config onto cfg. Keys absent from
// the file keep their current values. The format is chosen by extension:
// .yaml and .yml are YAML, everything else is JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := toFile(cfg)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func toFile(c *Config) FileConfig {
	return FileConfig{
		HTTPAddr:           c.HTTPAddr,
		GRPCAddr:           c.GRPCAddr,
		DevMode:            c.DevMode,
		LogLevel:           c.LogLevel,
		LogFormat:          c.LogFormat,
		StorageDriver:      c.StorageDriver,
		DatabaseDSN:        c.DatabaseDSN,
		SeedDemoUsers:      c.SeedDemoUsers,
		SecretKey:          c.SecretKey,
		AccessTokenTTL:     timex.Duration{Duration: c.AccessTokenTTL},
		TopK:               c.TopK,
		Overfetch:          c.Overfetch,
		IndexBackend:       c.IndexBackend,
		QdrantURL:          c.QdrantURL,
		QdrantCollection:   c.QdrantCollection,
		QdrantAPIKey:       c.QdrantAPIKey,
		IndexKeepUnrelated: c.IndexKeepUnrelated,
		EmbedderBackend:    c.EmbedderBackend,
		EmbeddingURL:       c.EmbeddingURL,
		EmbeddingModel:     c.EmbeddingModel,
		EmbeddingAPIKey:    c.EmbeddingAPIKey,
		EmbeddingDim:       c.EmbeddingDim,
		CorpusURI:          c.CorpusURI,
		S3Region:           c.S3Region,
		S3BaseEndpoint:     c.S3BaseEndpoint,
		S3AccessKey:        c.S3AccessKey,
		S3SecretKey:        c.S3SecretKey,
		S3UsePathStyle:     c.S3UsePathStyle,
		GenerationURL:      c.GenerationURL,
		GenerationModel:    c.GenerationModel,
		GenerationAPIKey:   c.GenerationAPIKey,
		GenerationTimeout:  timex.Duration{Duration: c.GenerationTimeout},
		GenerationRetries:  c.GenerationRetries,
	}
}

func (f FileConfig) apply(c *Config) {
	c.HTTPAddr = f.HTTPAddr
	c.GRPCAddr = f.GRPCAddr
	c.DevMode = f.DevMode
	c.LogLevel = f.LogLevel
	c.LogFormat = f.LogFormat
	c.StorageDriver = f.StorageDriver
	c.DatabaseDSN = f.DatabaseDSN
	c.SeedDemoUsers = f.SeedDemoUsers
	c.SecretKey = f.SecretKey
	c.AccessTokenTTL = f.AccessTokenTTL.Duration
	c.TopK = f.TopK
	c.Overfetch = f.Overfetch
	c.IndexBackend = f.IndexBackend
	c.QdrantURL = f.QdrantURL
	c.QdrantCollection = f.QdrantCollection
	c.QdrantAPIKey = f.QdrantAPIKey
	c.IndexKeepUnrelated = f.IndexKeepUnrelated
	c.EmbedderBackend = f.EmbedderBackend
	c.EmbeddingURL = f.EmbeddingURL
	c.EmbeddingModel = f.EmbeddingModel
	c.EmbeddingAPIKey = f.EmbeddingAPIKey
	c.EmbeddingDim = f.EmbeddingDim
	c.CorpusURI = f.CorpusURI
	c.S3Region = f.S3Region
	c.S3BaseEndpoint = f.S3BaseEndpoint
	c.S3AccessKey = f.S3AccessKey
	c.S3SecretKey = f.S3SecretKey
	c.S3UsePathStyle = f.S3UsePathStyle
	c.GenerationURL = f.GenerationURL
	c.GenerationModel = f.GenerationModel
	c.GenerationAPIKey = f.GenerationAPIKey
	c.GenerationTimeout = f.GenerationTimeout.Duration
	c.GenerationRetries = f.GenerationRetries
}
