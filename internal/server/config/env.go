package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays environment variables onto cfg. Only variables that are
// set are applied.
//
//	JWT_SECRET_KEY                   signing secret
//	JWT_ACCESS_TOKEN_EXPIRE_MINUTES  token lifetime, minutes
//	RAGKEEPER_DEV_MODE               "true" enables dev mode
//	DATABASE_DSN                     credential store DSN
//	GROQ_API_KEY, GROQ_MODEL         generation credentials and model
//	EMBEDDING_API_KEY                embeddings API key (falls back to OPENAI_API_KEY)
//	QDRANT_URL, QDRANT_API_KEY       vector index endpoint
//	INDEX_KEEP_UNRELATED             "true" keeps zero-similarity passages
//	CORPUS_URI                       corpus snapshot location
//	AWS_REGION                       object storage region
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("JWT_SECRET_KEY", &cfg.SecretKey)
	str("DATABASE_DSN", &cfg.DatabaseDSN)
	str("GROQ_API_KEY", &cfg.GenerationAPIKey)
	str("GROQ_MODEL", &cfg.GenerationModel)
	str("OPENAI_API_KEY", &cfg.EmbeddingAPIKey)
	str("EMBEDDING_API_KEY", &cfg.EmbeddingAPIKey)
	str("QDRANT_URL", &cfg.QdrantURL)
	str("QDRANT_API_KEY", &cfg.QdrantAPIKey)
	str("CORPUS_URI", &cfg.CorpusURI)
	str("AWS_REGION", &cfg.S3Region)

	if v, ok := lookup("JWT_ACCESS_TOKEN_EXPIRE_MINUTES"); ok && v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
		}
		cfg.AccessTokenTTL = time.Duration(m) * time.Minute
	}

	if v, ok := lookup("INDEX_KEEP_UNRELATED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("INDEX_KEEP_UNRELATED: %w", err)
		}
		cfg.IndexKeepUnrelated = b
	}

	if v, ok := lookup("RAGKEEPER_DEV_MODE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RAGKEEPER_DEV_MODE: %w", err)
		}
		cfg.DevMode = b
	}

	return nil
}
