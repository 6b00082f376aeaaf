package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) DocumentStore {
	t.Helper()
	s, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SaveDocument(ctx, &DocumentRecord{
		ID:    "doc-1",
		Title: "Quarterly Report",
		Pages: map[int]string{1: "Alpha Beta.", 2: "Gamma Delta."},
	})
	require.NoError(t, err)

	got, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", got.Title)
	assert.Equal(t, map[int]string{1: "Alpha Beta.", 2: "Gamma Delta."}, got.Pages)
	assert.Equal(t, StatusIngested, got.Status)
	require.Len(t, got.History, 1)
	assert.Equal(t, StatusIngested, got.History[0].Status)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestGetMissingDocument(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDocument(ctx, &DocumentRecord{
		ID:    "doc-1",
		Pages: map[int]string{1: "first version"},
	}))
	first, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)

	require.NoError(t, s.SaveDocument(ctx, &DocumentRecord{
		ID:    "doc-1",
		Pages: map[int]string{1: "second version"},
	}))
	second, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "second version", second.Pages[1])
}

func TestSaveRequiresID(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.SaveDocument(context.Background(), &DocumentRecord{}))
	assert.Error(t, s.SaveDocument(context.Background(), nil))
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDocument(ctx, &DocumentRecord{
		ID:    "doc-1",
		Pages: map[int]string{1: "content"},
	}))

	require.NoError(t, s.UpdateStatus(ctx, "doc-1", StatusProcessing, "segmentation started"))
	require.NoError(t, s.UpdateStatus(ctx, "doc-1", StatusCompleted, ""))

	got, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.Len(t, got.History, 3)
	assert.Equal(t, StatusProcessing, got.History[1].Status)
	assert.Equal(t, "segmentation started", got.History[1].Detail)
	assert.Equal(t, StatusCompleted, got.History[2].Status)
}

func TestUpdateStatusMissingDocument(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateStatus(context.Background(), "missing", StatusFailed, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDocumentsSorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"doc-c", "doc-a", "doc-b"} {
		require.NoError(t, s.SaveDocument(ctx, &DocumentRecord{
			ID:    id,
			Pages: map[int]string{1: "x"},
		}))
	}

	ids, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a", "doc-b", "doc-c"}, ids)
}

func TestDeleteDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDocument(ctx, &DocumentRecord{
		ID:    "doc-1",
		Pages: map[int]string{1: "x"},
	}))
	require.NoError(t, s.DeleteDocument(ctx, "doc-1"))

	_, err := s.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, s.DeleteDocument(ctx, "doc-1"))
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDocument(ctx, &DocumentRecord{
		ID:    "doc-1",
		Pages: map[int]string{1: "a", 2: "b"},
	}))
	require.NoError(t, s.SaveDocument(ctx, &DocumentRecord{
		ID:    "doc-2",
		Pages: map[int]string{1: "c"},
	}))

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.DocumentCount)
	assert.Equal(t, int64(3), stats.PageCount)
}

func TestFactory(t *testing.T) {
	_, err := NewDocumentStore(nil)
	assert.Error(t, err)

	_, err = NewDocumentStore(&StoreConfig{Type: StoreTypeBadger})
	assert.Error(t, err)

	_, err = NewDocumentStore(&StoreConfig{Type: "cassandra"})
	assert.Error(t, err)

	s, err := NewDocumentStore(&StoreConfig{Type: StoreTypeMemory})
	require.NoError(t, err)
	defer s.Close()

	disk, err := NewDocumentStore(&StoreConfig{Path: t.TempDir()})
	require.NoError(t, err)
	defer disk.Close()
}
