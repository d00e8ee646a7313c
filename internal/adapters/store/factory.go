package store

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
)

// NewResultStore creates a result store for the configured backend
// ("json" or "sqlite").
func NewResultStore(backend, path string) (core.ResultStore, error) {
	switch backend {
	case "json":
		return NewJSONResultStore(path), nil
	case "sqlite":
		return NewSQLiteResultStore(path)
	default:
		return nil, fmt.Errorf("unknown results backend %q (want json or sqlite)", backend)
	}
}

// Closeable is an optional interface for stores that need cleanup.
type Closeable interface {
	Close() error
}

// CloseResultStore safely closes a store if it implements Closeable.
func CloseResultStore(store core.ResultStore) error {
	if closeable, ok := store.(Closeable); ok {
		return closeable.Close()
	}
	return nil
}
