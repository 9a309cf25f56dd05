package rawlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	outDir := t.TempDir()
	archive, err := New(outDir)
	require.NoError(t, err)

	t.Run("Path", func(t *testing.T) {
		assert.Equal(t,
			filepath.Join(outDir, "raw", "lock-free-t4-r2.log.zst"),
			archive.Path("lock-free", 4, 2),
		)
	})

	t.Run("StoreAndRead", func(t *testing.T) {
		stdout := "> Task :bench\n" + strings.Repeat("warming up\n", 100) + "RESULT:12.5\n"
		require.NoError(t, archive.Store("universal", 1, 1, stdout))

		info, err := os.Stat(archive.Path("universal", 1, 1))
		require.NoError(t, err)
		assert.Less(t, info.Size(), int64(len(stdout)))

		got, err := archive.Read("universal", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, stdout, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, archive.Store("lock-persistent", 1, 1, "first"))
		require.NoError(t, archive.Store("lock-persistent", 1, 1, "second"))
		got, err := archive.Read("lock-persistent", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("ReadMissing", func(t *testing.T) {
		_, err := archive.Read("universal", 9, 9)
		assert.Error(t, err)
	})
}

func TestNewIsIdempotent(t *testing.T) {
	outDir := t.TempDir()
	_, err := New(outDir)
	require.NoError(t, err)
	_, err = New(outDir)
	assert.NoError(t, err)
}
