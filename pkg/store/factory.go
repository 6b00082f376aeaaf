package store

import (
	"fmt"
)

// StoreType selects the document store backend.
type StoreType string

const (
	// StoreTypeBadger uses an embedded Badger database on disk.
	StoreTypeBadger StoreType = "badger"
	// StoreTypeMemory uses Badger's in-memory mode; nothing survives restart.
	StoreTypeMemory StoreType = "memory"
)

// StoreConfig configures the document store backend.
type StoreConfig struct {
	// Type is the backend type: "badger" (default) or "memory".
	Type StoreType `json:"type,omitempty"`

	// Path is the data directory for the badger backend.
	Path string `json:"path,omitempty"`
}

// NewDocumentStore creates a DocumentStore from the configuration. An empty
// Type defaults to badger; badger with an empty Path is rejected so a typo
// cannot silently produce an ephemeral store.
func NewDocumentStore(config *StoreConfig) (DocumentStore, error) {
	if config == nil {
		return nil, fmt.Errorf("store config is required")
	}

	switch config.Type {
	case StoreTypeBadger, "":
		if config.Path == "" {
			return nil, fmt.Errorf("badger store requires a data path")
		}
		return NewBadgerStore(config.Path)

	case StoreTypeMemory:
		return NewBadgerStore("")

	default:
		return nil, fmt.Errorf("unsupported store type: %s (supported: badger, memory)", config.Type)
	}
}
