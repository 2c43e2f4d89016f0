// Package runlog keeps a history of bridge operations so that operators can
// see when a plan was written, when the scheduler's results were merged and
// which runs failed.
package runlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record captures one bridge operation.
type Record struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation"`
	Dir        string    `json:"dir"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	Files      int       `json:"files"`
	Rows       int       `json:"rows"`
	DurationMS int64     `json:"duration_ms"`
}

// NewRecord returns a record with a fresh ID.
func NewRecord(op string, ts time.Time) Record {
	return Record{ID: uuid.NewString(), Timestamp: ts, Operation: op}
}

// Query defines filters for retrieving records. Zero values match all.
type Query struct {
	Operation string
	Since     time.Time
	// Limit keeps only the most recent records.
	Limit int
}

func (q Query) match(r Record) bool {
	if q.Operation != "" && r.Operation != q.Operation {
		return false
	}
	if !q.Since.IsZero() && r.Timestamp.Before(q.Since) {
		return false
	}
	return true
}

func (q Query) limit(res []Record) []Record {
	if q.Limit > 0 && len(res) > q.Limit {
		return res[len(res)-q.Limit:]
	}
	return res
}

// Store persists Records and supports querying in chronological order.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects the history backend.
type Config struct {
	// Backend is "none", "jsonl" or "sqlite".
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.Path == "" {
		switch c.Backend {
		case "jsonl":
			c.Path = "spaplan-history.jsonl"
		case "sqlite":
			c.Path = "spaplan-history.db"
		}
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("history path is required for backend %s", c.Backend)
		}
		return nil
	}
	return fmt.Errorf("unknown history backend %s", c.Backend)
}

// Open creates the store selected by cfg.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "none":
		return NopStore{}, nil
	case "jsonl":
		return NewJSONLStore(cfg.Path)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	}
	return nil, fmt.Errorf("unknown history backend %s", cfg.Backend)
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                    { return nil }
