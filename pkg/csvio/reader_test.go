package csvio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"payments-engine/pkg/engine"
)

func readAll(t *testing.T, input string) []engine.Transaction {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	ctx := context.Background()

	var out []engine.Transaction
	for {
		tx, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		out = append(out, tx)
	}
}

func TestReader_ParsesRecords(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 1.0\n" +
		"withdrawal,2,2,0.5\n" +
		"dispute, 1, 1\n" +
		"resolve, 1, 1,\n"

	txs := readAll(t, input)
	if len(txs) != 4 {
		t.Fatalf("expected 4 records, got %d", len(txs))
	}

	first := txs[0]
	if first.Kind != engine.Deposit || first.Client != 1 || first.TX != 1 {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.Amount == nil || !first.Amount.Equal(decimal.RequireFromString("1.0")) {
		t.Errorf("unexpected first amount: %v", first.Amount)
	}

	// Dispute rows carry no amount, whether the column is omitted or empty.
	if txs[2].Amount != nil {
		t.Errorf("dispute should have no amount, got %v", txs[2].Amount)
	}
	if txs[3].Amount != nil {
		t.Errorf("resolve should have no amount, got %v", txs[3].Amount)
	}
}

func TestReader_TrimsWhitespace(t *testing.T) {
	input := " type , client , tx , amount \n" +
		"  deposit ,  7 ,  9 ,  2.5  \n"

	txs := readAll(t, input)
	if len(txs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(txs))
	}
	tx := txs[0]
	if tx.Kind != engine.Deposit || tx.Client != 7 || tx.TX != 9 {
		t.Errorf("fields not trimmed: %+v", tx)
	}
	if tx.Amount == nil || !tx.Amount.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("amount not trimmed: %v", tx.Amount)
	}
}

func TestReader_MalformedRows(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"bad client", "type,client,tx,amount\ndeposit,abc,1,1.0\n"},
		{"bad tx", "type,client,tx,amount\ndeposit,1,xyz,1.0\n"},
		{"bad amount", "type,client,tx,amount\ndeposit,1,1,one\n"},
		{"client overflow", "type,client,tx,amount\ndeposit,70000,1,1.0\n"},
		{"missing column", "client,tx,amount\n1,1,1.0\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(c.input))
			_, err := r.Next(context.Background())
			if !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.Next(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestPipeline_ReferenceCSV runs the reference input through the whole
// pipeline and checks the emitted CSV.
func TestPipeline_ReferenceCSV(t *testing.T) {
	input := `type, client, tx, amount
deposit, 1, 1, 1.0000001
deposit, 2, 2, 2.0
deposit, 1, 3, 0.5
deposit, 1, 4, 2.0
withdrawal, 1, 5, 1.5
withdrawal, 2, 6, 3.0
dispute, 1, 1
resolve, 1, 1
dispute, 1, 3
dispute, 1, 1
chargeback, 1, 1
`

	accounts, err := engine.Replay(context.Background(), NewReader(strings.NewReader(input)), engine.Config{})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	var out strings.Builder
	if err := NewWriter(&out).WriteAll(accounts.Snapshot()); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "client,available,held,total,locked\n" +
		"1,0.5000,0.5000,1.0000,true\n" +
		"2,2.0000,0.0000,2.0000,false\n"
	if out.String() != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestPipeline_UnknownKindAborts(t *testing.T) {
	input := "type,client,tx,amount\nteleport,1,1,1.0\n"
	_, err := engine.Replay(context.Background(), NewReader(strings.NewReader(input)), engine.Config{})
	if !errors.Is(err, engine.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
