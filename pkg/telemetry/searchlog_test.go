package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pincite/pincite/pkg/registry"
	"github.com/pincite/pincite/pkg/types"
)

func parquetFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	require.NoError(t, err)
	return matches
}

func TestSearchLogWriteHistory(t *testing.T) {
	dir := t.TempDir()
	log := NewSearchLog(dir)

	history := []registry.SearchRecord{
		{Timestamp: time.Now().UTC(), Query: "alpha", Mode: types.SearchModeExact, ResultCount: 2},
		{Timestamp: time.Now().UTC(), Query: "beta gamma", Mode: types.SearchModeHybrid, ResultCount: 0},
	}
	require.NoError(t, log.WriteHistory("doc-1", history))

	files := parquetFiles(t, dir)
	require.Len(t, files, 1)

	rows, err := parquet.ReadFile[SearchEvent](files[0])
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "doc-1", rows[0].DocumentID)
	assert.Equal(t, "alpha", rows[0].Query)
	assert.Equal(t, "exact", rows[0].Mode)
	assert.Equal(t, 2, rows[0].ResultCount)
	assert.NotEmpty(t, rows[0].ID)
}

func TestSearchLogEmptyHistory(t *testing.T) {
	dir := t.TempDir()
	log := NewSearchLog(dir)

	require.NoError(t, log.WriteHistory("doc-1", nil))
	assert.Empty(t, parquetFiles(t, dir))
}

func TestParquetHandlerBuffersErrors(t *testing.T) {
	dir := t.TempDir()
	h, err := NewParquetHandler(slog.NewTextHandler(os.Stderr, nil), dir)
	require.NoError(t, err)

	log := slog.New(h)
	ctx := context.WithValue(context.Background(), types.ContextKeyUserID, "u-1")

	log.InfoContext(ctx, "ignored")
	log.ErrorContext(ctx, "index rebuild failed", "document_id", "doc-1")

	// Below batch size: nothing on disk until flushed.
	assert.Empty(t, parquetFiles(t, dir))

	require.NoError(t, h.Flush())
	files := parquetFiles(t, dir)
	require.Len(t, files, 1)

	rows, err := parquet.ReadFile[LogRecord](files[0])
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "index rebuild failed", rows[0].Message)
	assert.Equal(t, "u-1", rows[0].UserID)
	assert.Equal(t, "ERROR", rows[0].Level)
	assert.Contains(t, rows[0].Attributes, "doc-1")
}
