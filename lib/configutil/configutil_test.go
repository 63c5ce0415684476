package configutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Store struct {
		File string `json:"file"`
		Url  string `json:"url"`
	} `json:"store"`
	Workers int `json:"workers"`
	DelayMs int `json:"delay_ms"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.True(t, errors.Is(err, os.ErrNotExist))

	writeFile(t, name, `{
		// comments and trailing commas are fine
		store: { file: "mlb_stats.db" },
		workers: 1,
		delay_ms: 2000,
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ workers: 3 }`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "mlb_stats.db", cfg.Store.File)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, 2000, cfg.DelayMs)
}

func TestReadConfigWithDefaults(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	defaults := testConfig{Workers: 1, DelayMs: 2000}
	defaults.Store.File = "data/mlb_stats.db"

	cfg, err := ReadConfigWithDefaults(name, defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	writeFile(t, name, `{ store: { url: "libsql://stats.example.com" } }`)
	cfg, err = ReadConfigWithDefaults(name, defaults)
	require.NoError(t, err)
	require.Equal(t, "data/mlb_stats.db", cfg.Store.File)
	require.Equal(t, "libsql://stats.example.com", cfg.Store.Url)
	require.Equal(t, 2000, cfg.DelayMs)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")
	writeFile(t, name, `{ workers: `)

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.False(t, errors.Is(err, os.ErrNotExist))
}
