package main

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDefaultYield(t *testing.T) {
	got, err := parseDefaultYield("0.85")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("0.85")) {
		t.Fatalf("expected 0.85, got %s", got)
	}

	if _, err := parseDefaultYield("not-a-number"); err == nil {
		t.Fatalf("expected parse error")
	}

	if _, err := parseDefaultYield("1.5"); err == nil {
		t.Fatalf("expected out-of-range yield to be rejected")
	}

	if _, err := parseDefaultYield("0"); err == nil {
		t.Fatalf("expected zero yield to be rejected")
	}
}
