package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() Config {
		c := Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name     string
		args     []string
		expected func() Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:8080", "-g", ":7000", "-d", "file:u.db", "-s", "secret",
				"-t", "15", "-k", "3", "-l", "debug", "-i", "s3://b/k.jsonl", "-dev", "-keep-unrelated"},
			expected: func() Config {
				c := base()
				c.HTTPAddr = "127.0.0.1:8080"
				c.GRPCAddr = ":7000"
				c.DatabaseDSN = "file:u.db"
				c.SecretKey = "secret"
				c.AccessTokenTTL = 15 * time.Minute
				c.TopK = 3
				c.LogLevel = "debug"
				c.CorpusURI = "s3://b/k.jsonl"
				c.DevMode = true
				c.IndexKeepUnrelated = true
				return c
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-k=9"},
			expected: func() Config { c := base(); c.TopK = 9; return c },
		},
		{
			name:     "unset flags keep current values",
			args:     []string{"-a", ":1"},
			expected: func() Config { c := base(); c.HTTPAddr = ":1"; return c },
		},
		{
			name:    "bad int",
			args:    []string{"-k", "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			err := parseFlags(&cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected(), cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
