package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/eventhub/internal/flagx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv(flagx.ConfigPathEnv, "")

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_base_url":     "https://staging.example/api/v1",
		"request_timeout":  "10s",
		"log_format":       "zerolog",
		"s3_base_endpoint": "http://127.0.0.1:9000",
	})
	pathEnv := writeTempJSON(t, dir, "env.json", map[string]any{
		"origin_host":     "eventhub.app",
		"request_timeout": 2000000000,
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := defaults()
		require.NoError(t, parseFile(cfg))

		assert.Equal(t, "https://staging.example/api/v1", cfg.APIBaseURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "zerolog", cfg.LogFormat)
		assert.Equal(t, "http://127.0.0.1:9000", cfg.S3BaseEndpoint)
		assert.Equal(t, "eventhub.db", cfg.StorePath, "absent keys keep defaults")
	})

	t.Run("loads from env", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(flagx.ConfigPathEnv, pathEnv)

		cfg := defaults()
		require.NoError(t, parseFile(cfg))

		assert.Equal(t, "eventhub.app", cfg.OriginHost)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	})

	t.Run("no file → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := defaults()
		require.NoError(t, parseFile(cfg))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("missing file → error", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Error(t, parseFile(defaults()))
	})

	t.Run("loads YAML by extension", func(t *testing.T) {
		yml := filepath.Join(dir, "eventhub.yaml")
		body := "api_base_url: https://yaml.example/api/v1\n" +
			"request_timeout: 7s\n" +
			"export_bucket: attendee-exports\n"
		require.NoError(t, os.WriteFile(yml, []byte(body), 0o600))

		os.Args = []string{"testbin", "-c", yml}
		cfg := defaults()
		require.NoError(t, parseFile(cfg))

		assert.Equal(t, "https://yaml.example/api/v1", cfg.APIBaseURL)
		assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "attendee-exports", cfg.ExportBucket)
		assert.Equal(t, "warn", cfg.LogLevel, "absent keys keep defaults")
	})

	t.Run("invalid YAML → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yml")
		require.NoError(t, os.WriteFile(bad, []byte("request_timeout: soon\n"), 0o600))

		os.Args = []string{"testbin", "-config", bad}
		require.Error(t, parseFile(defaults()))
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}
		require.Error(t, parseFile(defaults()))
	})
}
