package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.0000001", "1"},
		{"2.0", "2"},
		{"1.00005", "1.0001"},  // half rounds away from zero
		{"-1.00005", "-1.0001"},
		{"0.12345", "0.1235"},
		{"0.1234", "0.1234"},
		{"3", "3"},
	}
	for _, c := range cases {
		got := Normalize(decimal.RequireFromString(c.in))
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("Normalize(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}
