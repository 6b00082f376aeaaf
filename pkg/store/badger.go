package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

const docKeyPrefix = "doc:"

// BadgerStore is a DocumentStore backed by an embedded Badger database.
// Records are stored as JSON under "doc:{id}" keys.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at dir. An empty dir
// opens an in-memory database, useful for tests and ephemeral runs.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func docKey(documentID string) []byte {
	return []byte(docKeyPrefix + documentID)
}

// SaveDocument writes a record, stamping CreatedAt on first write and
// UpdatedAt on every write.
func (s *BadgerStore) SaveDocument(ctx context.Context, record *DocumentRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("document record requires an id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.Update(func(txn *badger.Txn) error {
		existing, err := getRecord(txn, record.ID)
		switch {
		case err == nil:
			record.CreatedAt = existing.CreatedAt
			if record.Status == "" {
				record.Status = existing.Status
			}
			if len(record.History) == 0 {
				record.History = existing.History
			}
		case err == ErrNotFound:
			record.CreatedAt = now
			if record.Status == "" {
				record.Status = StatusIngested
			}
			if len(record.History) == 0 {
				record.History = []WorkflowEvent{{Status: record.Status, Timestamp: now}}
			}
		default:
			return err
		}
		record.UpdatedAt = now

		value, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", record.ID, err)
		}
		return txn.Set(docKey(record.ID), value)
	})
}

func getRecord(txn *badger.Txn, documentID string) (*DocumentRecord, error) {
	item, err := txn.Get(docKey(documentID))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	record := &DocumentRecord{}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, record)
	})
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", documentID, err)
	}
	return record, nil
}

// GetDocument retrieves a record by id.
func (s *BadgerStore) GetDocument(ctx context.Context, documentID string) (*DocumentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record *DocumentRecord
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		record, err = getRecord(txn, documentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListDocuments returns stored document ids, sorted.
func (s *BadgerStore) ListDocuments(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(docKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, docKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// UpdateStatus sets the document's status and appends a workflow event.
func (s *BadgerStore) UpdateStatus(ctx context.Context, documentID string, status DocumentStatus, detail string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.Update(func(txn *badger.Txn) error {
		record, err := getRecord(txn, documentID)
		if err != nil {
			return err
		}

		record.Status = status
		record.UpdatedAt = now
		record.History = append(record.History, WorkflowEvent{
			Status:    status,
			Timestamp: now,
			Detail:    detail,
		})

		value, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", documentID, err)
		}
		return txn.Set(docKey(documentID), value)
	})
}

// DeleteDocument removes a record. Deleting an absent id is not an error.
func (s *BadgerStore) DeleteDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(docKey(documentID))
	})
}

// GetStats returns document and page counts.
func (s *BadgerStore) GetStats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &Stats{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(docKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			record := &DocumentRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, record)
			})
			if err != nil {
				return err
			}
			stats.DocumentCount++
			stats.PageCount += int64(len(record.Pages))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
