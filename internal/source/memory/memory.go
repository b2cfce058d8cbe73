// Package memory provides an in-memory record source for tests and demos.
package memory

import (
	"context"

	"txnetl/internal/core"
	"txnetl/internal/etl"
)

type Store struct {
	records []core.RawRecord
}

var _ etl.Source = (*Store)(nil)

func New(records ...core.RawRecord) *Store {
	return &Store{records: records}
}

// Fetch returns a copy of the seeded records so callers cannot mutate the
// store's backing slice.
func (s *Store) Fetch(_ context.Context) ([]core.RawRecord, error) {
	out := make([]core.RawRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}
