package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionOf(t *testing.T) {
	require.Equal(t, "001", VersionOf("migrations/001_init.sql"))
	require.Equal(t, "seed", VersionOf("seed.sql"))
}

func TestPendingFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_dm.sql", "001_init.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := PendingFiles(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "001_init.sql"),
		filepath.Join(dir, "002_dm.sql"),
	}, files)
}
