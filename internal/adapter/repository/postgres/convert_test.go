package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, in := range []string{"0", "1500.25", "0.00000001", "-42.10"} {
		d := decimal.RequireFromString(in)

		got := numericToDecimal(decimalToNumeric(d))

		if !got.Equal(d) {
			t.Fatalf("round trip of %s returned %s", in, got)
		}
	}
}

func TestNullableHelpers(t *testing.T) {
	if textPtr(optionalText(nil)) != nil {
		t.Fatalf("expected nil text to stay nil")
	}

	name := "Cash"
	if got := textPtr(optionalText(&name)); got == nil || *got != "Cash" {
		t.Fatalf("expected Cash, got %v", got)
	}

	if datePtr(optionalDate(nil)) != nil || timestamptzPtr(optionalTimestamptz(nil)) != nil {
		t.Fatalf("expected nil times to stay nil")
	}

	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := datePtr(optionalDate(&now)); got == nil || !got.Equal(now) {
		t.Fatalf("expected %v, got %v", now, got)
	}
}
