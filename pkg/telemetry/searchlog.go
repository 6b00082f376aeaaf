package telemetry

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/pincite/pincite/pkg/registry"
)

// SearchEvent is one executed search, flattened for Parquet storage.
type SearchEvent struct {
	ID          string    `parquet:"id"`
	DocumentID  string    `parquet:"document_id"`
	Timestamp   time.Time `parquet:"timestamp"`
	Query       string    `parquet:"query"`
	Mode        string    `parquet:"mode"`
	ResultCount int       `parquet:"result_count"`
}

// SearchLog snapshots per-document search histories into Parquet files.
type SearchLog struct {
	outputDir string
}

// NewSearchLog returns a log writing under outputDir. The directory must
// already exist; NewParquetHandler creates it when both share a directory.
func NewSearchLog(outputDir string) *SearchLog {
	return &SearchLog{outputDir: outputDir}
}

// WriteHistory persists a document's search history as one Parquet file.
// An empty history writes nothing.
func (l *SearchLog) WriteHistory(documentID string, history []registry.SearchRecord) error {
	if len(history) == 0 {
		return nil
	}

	events := make([]SearchEvent, 0, len(history))
	for _, rec := range history {
		events = append(events, SearchEvent{
			ID:          uuid.New().String(),
			DocumentID:  documentID,
			Timestamp:   rec.Timestamp,
			Query:       rec.Query,
			Mode:        string(rec.Mode),
			ResultCount: rec.ResultCount,
		})
	}

	filename := fmt.Sprintf("searches_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(l.outputDir, filename)

	if err := parquet.WriteFile(path, events); err != nil {
		return fmt.Errorf("write search parquet file: %w", err)
	}
	return nil
}
