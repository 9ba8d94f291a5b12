package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 75*time.Second, c.RequestTimeout)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_endpoint_addr":  "www.example:9000",
		"online_check_interval": "10s",
	})

	tests := []struct {
		name string
		args []string
		want *Config
	}{
		{
			name: "defaults only",
			args: nil,
			want: &Config{ServerEndpointAddr: "127.0.0.1:50051", OnlineCheckInterval: 3 * time.Second, RequestTimeout: 75 * time.Second},
		},
		{
			name: "file overrides defaults, keeps absent fields",
			args: []string{"-config", path},
			want: &Config{ServerEndpointAddr: "www.example:9000", OnlineCheckInterval: 10 * time.Second, RequestTimeout: 75 * time.Second},
		},
		{
			name: "flags override file",
			args: []string{"-c", path, "-a", "127.0.0.1:9090", "-t", "5"},
			want: &Config{ServerEndpointAddr: "127.0.0.1:9090", OnlineCheckInterval: 10 * time.Second, RequestTimeout: 5 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.args)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	for _, args := range [][]string{
		{"-c", bad},
		{"-c", filepath.Join(t.TempDir(), "missing.json")},
		{"-i", "abc"},
		{"-i", "0"},
		{"-t", "-1"},
	} {
		_, err := Load(args)
		assert.Error(t, err, "args %v", args)
	}
}
