package engine

import (
	"context"
	"io"
)

// RecordSource yields transaction records in input order. Next returns
// io.EOF once the sequence is exhausted; any other error is a transport
// or parse failure and aborts the run.
type RecordSource interface {
	Next(ctx context.Context) (Transaction, error)
}

// SliceSource serves records from a slice. Used by tests and by the API
// when a batch arrives fully materialized.
type SliceSource struct {
	records []Transaction
	pos     int
}

// NewSliceSource creates a source over the given records.
func NewSliceSource(records ...Transaction) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return Transaction{}, err
	}
	if s.pos >= len(s.records) {
		return Transaction{}, io.EOF
	}
	tx := s.records[s.pos]
	s.pos++
	return tx, nil
}
