// Package csvio adapts delimited text to the engine's record source and
// sink contracts. Input rows carry `type, client, tx, amount` with the
// amount column optional; fields are whitespace-trimmed and rows may omit
// trailing columns. Output rows carry one account snapshot each, amounts
// rendered with exactly four fractional digits.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"payments-engine/pkg/engine"
	"payments-engine/pkg/ledger"
)

// ErrMalformedRecord is returned when a row cannot be parsed into a
// transaction record. It is fatal to the run.
var ErrMalformedRecord = errors.New("csvio: malformed record")

// Reader reads transaction records from CSV input. It implements
// engine.RecordSource; rows are decoded lazily, one per Next call.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	record  int
}

// NewReader creates a record source over CSV input. The first row must
// be a header naming the columns.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// readHeader maps column names to their positions.
func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: reading header: %v", ErrMalformedRecord, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("%w: header missing %q column", ErrMalformedRecord, required)
		}
	}
	r.columns = columns
	return nil
}

// field returns the trimmed value of the named column, or "" when the
// row is too short to carry it.
func (r *Reader) field(row []string, name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Next returns the next transaction record, or io.EOF at end of input.
func (r *Reader) Next(ctx context.Context) (engine.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return engine.Transaction{}, err
	}
	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			return engine.Transaction{}, err
		}
	}

	row, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return engine.Transaction{}, io.EOF
		}
		return engine.Transaction{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	r.record++

	client, err := strconv.ParseUint(r.field(row, "client"), 10, 16)
	if err != nil {
		return engine.Transaction{}, fmt.Errorf("%w: record %d: bad client id %q", ErrMalformedRecord, r.record, r.field(row, "client"))
	}
	txID, err := strconv.ParseUint(r.field(row, "tx"), 10, 32)
	if err != nil {
		return engine.Transaction{}, fmt.Errorf("%w: record %d: bad tx id %q", ErrMalformedRecord, r.record, r.field(row, "tx"))
	}

	tx := engine.Transaction{
		Kind:   engine.Kind(r.field(row, "type")),
		Client: ledger.ClientID(client),
		TX:     engine.TxID(txID),
	}

	// The amount column is optional and may be empty on rows that carry
	// it; whether a missing amount is an error is the processor's call.
	if raw := r.field(row, "amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return engine.Transaction{}, fmt.Errorf("%w: record %d: bad amount %q", ErrMalformedRecord, r.record, raw)
		}
		tx.Amount = &amount
	}

	return tx, nil
}
