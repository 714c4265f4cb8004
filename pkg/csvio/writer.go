package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"payments-engine/pkg/engine"
	"payments-engine/pkg/ledger"
)

// Writer emits account snapshots as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a snapshot sink over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAll writes a header row followed by one row per snapshot.
func (w *Writer) WriteAll(snapshots []ledger.Snapshot) error {
	if err := w.csv.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}
	for _, s := range snapshots {
		row := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			s.Available.StringFixed(engine.Scale),
			s.Held.StringFixed(engine.Scale),
			s.Total.StringFixed(engine.Scale),
			strconv.FormatBool(s.Locked),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}
