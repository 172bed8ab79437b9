package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

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

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_base_url":           "https://clinic.example",
		"request_timeout":        "3s",
		"retry_count":            0,
		"session_check_interval": 2000000000,
		"encryption_passphrase":  "s3cret",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := defaults()
		parseJson(&cfg)

		assert.Equal(t, "https://clinic.example", cfg.APIBaseURL)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 0, cfg.RetryCount, "explicit zero overrides the default")
		assert.Equal(t, 2*time.Second, cfg.SessionCheckInterval)
		assert.Equal(t, "s3cret", cfg.EncryptionPassphrase)
		assert.Equal(t, "en", cfg.Locale, "absent keys keep earlier values")
	})

	t.Run("loads from env var", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("DENTACARE_CONFIG", pathFlag)

		cfg := defaults()
		parseJson(&cfg)

		assert.Equal(t, "https://clinic.example", cfg.APIBaseURL)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := Config{APIBaseURL: "http://defaults:1234", SessionCheckInterval: 42 * time.Second}
		parseJson(&cfg)

		assert.Equal(t, "http://defaults:1234", cfg.APIBaseURL)
		assert.Equal(t, 42*time.Second, cfg.SessionCheckInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := Config{}
		require.Panics(t, func() { parseJson(&cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}

		cfg := Config{}
		require.Panics(t, func() { parseJson(&cfg) })
	})
}
