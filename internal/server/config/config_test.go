package config

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, "memory", c.StorageDriver)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 5, c.TopK)
	assert.Equal(t, 3, c.Overfetch)
	assert.Equal(t, "llama-3.3-70b-versatile", c.GenerationModel)
	assert.Equal(t, 30*time.Second, c.GenerationTimeout)
	assert.Equal(t, 1, c.GenerationRetries)
}

func TestLoad_MissingSecretFailsOutsideDevMode(t *testing.T) {
	_, err := Load(nil, noEnv)
	assert.ErrorIs(t, err, common.ErrSigningSecretMissing)
}

func TestLoad_DevModeGeneratesSecret(t *testing.T) {
	orig := randomSecret
	randomSecret = func() string { return "generated" }
	t.Cleanup(func() { randomSecret = orig })

	cfg, err := Load([]string{"-dev"}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "generated", cfg.SecretKey)
	assert.True(t, cfg.SecretGenerated)
}

func TestLoad_ExplicitSecretIsKept(t *testing.T) {
	cfg, err := Load([]string{"-s", "s3cr3t", "-dev"}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.False(t, cfg.SecretGenerated)
}

func TestLoad_EnvOverridesDefaultsAndFlagsOverrideEnv(t *testing.T) {
	env := envMap(map[string]string{
		"JWT_SECRET_KEY":                  "from-env",
		"JWT_ACCESS_TOKEN_EXPIRE_MINUTES": "45",
		"GROQ_API_KEY":                    "gsk",
		"OPENAI_API_KEY":                  "openai",
		"EMBEDDING_API_KEY":               "embed",
	})

	cfg, err := Load([]string{"-s", "from-flag"}, env)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "gsk", cfg.GenerationAPIKey)
	assert.Equal(t, "embed", cfg.EmbeddingAPIKey)
}

func TestLoad_BadEnvValue(t *testing.T) {
	_, err := Load(nil, envMap(map[string]string{"JWT_ACCESS_TOKEN_EXPIRE_MINUTES": "soon"}))
	assert.ErrorContains(t, err, "JWT_ACCESS_TOKEN_EXPIRE_MINUTES")

	_, err = Load(nil, envMap(map[string]string{"RAGKEEPER_DEV_MODE": "maybe"}))
	assert.ErrorContains(t, err, "RAGKEEPER_DEV_MODE")

	_, err = Load(nil, envMap(map[string]string{"INDEX_KEEP_UNRELATED": "sometimes"}))
	assert.ErrorContains(t, err, "INDEX_KEEP_UNRELATED")
}

func TestLoad_KeepUnrelatedFromEnvAndFlag(t *testing.T) {
	cfg, err := Load([]string{"-s", "k"}, noEnv)
	require.NoError(t, err)
	assert.False(t, cfg.IndexKeepUnrelated)

	cfg, err = Load([]string{"-s", "k"}, envMap(map[string]string{"INDEX_KEEP_UNRELATED": "true"}))
	require.NoError(t, err)
	assert.True(t, cfg.IndexKeepUnrelated)

	cfg, err = Load([]string{"-s", "k", "-keep-unrelated=false"}, envMap(map[string]string{"INDEX_KEEP_UNRELATED": "true"}))
	require.NoError(t, err)
	assert.False(t, cfg.IndexKeepUnrelated)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		c.SecretKey = "k"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"postgres without dsn", func(c *Config) { c.StorageDriver = "postgres" }, "requires a database DSN"},
		{"sqlite with dsn", func(c *Config) { c.StorageDriver = "sqlite"; c.DatabaseDSN = "file:x.db" }, ""},
		{"unknown driver", func(c *Config) { c.StorageDriver = "mongo" }, "unknown storage driver"},
		{"unknown index", func(c *Config) { c.IndexBackend = "faiss" }, "unknown index backend"},
		{"unknown embedder", func(c *Config) { c.EmbedderBackend = "bert" }, "unknown embedder backend"},
		{"zero ttl", func(c *Config) { c.AccessTokenTTL = 0 }, "ttl must be positive"},
		{"zero k", func(c *Config) { c.TopK = 0 }, "top_k"},
		{"zero overfetch", func(c *Config) { c.Overfetch = 0 }, "overfetch"},
		{"zero timeout", func(c *Config) { c.GenerationTimeout = 0 }, "generation timeout"},
		{"two retries", func(c *Config) { c.GenerationRetries = 2 }, "retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadShared_NoSecretNeeded(t *testing.T) {
	cfg, err := LoadShared([]string{"-s", "ignored"}, envMap(map[string]string{
		"QDRANT_URL": "http://qdrant:6333",
		"CORPUS_URI": "s3://docs/corpus.jsonl",
	}))
	require.NoError(t, err)
	assert.Empty(t, cfg.SecretKey)
	assert.Equal(t, "http://qdrant:6333", cfg.QdrantURL)
	assert.Equal(t, "s3://docs/corpus.jsonl", cfg.CorpusURI)

	cfg2 := &Config{}
	cfg2.LoadDefaults()
	cfg2.IndexBackend = "faiss"
	assert.Error(t, cfg2.validateBackends())
}
