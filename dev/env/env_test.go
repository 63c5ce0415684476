package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	plain, err := ResolvePath("data/mlb_stats.db")
	require.NoError(t, err)
	require.Equal(t, "data/mlb_stats.db", plain)

	// tests run from within the package directory, inside the workspace
	resolved, err := ResolvePath("<dev_state>/mlb_stats.db")
	require.NoError(t, err)
	require.Equal(t, "mlb_stats.db", filepath.Base(resolved))
	require.Equal(t, ".state", filepath.Base(filepath.Dir(resolved)))

	info, err := os.Stat(filepath.Dir(resolved))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
