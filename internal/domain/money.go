package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrencyScale is used when a currency code is unknown or empty.
const DefaultCurrencyScale int32 = 2

// MaxAmountDigits bounds the digits accepted in amount text. Larger values
// are far beyond NUMERIC(20,4) and are treated as malformed.
const MaxAmountDigits = 24

// ParseAmount parses user-entered amount text. Empty or unparsable input
// yields exact zero; it never fails.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}

	d, err := parseDecimal(raw)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// ParseAmountStrict parses amount text and reports malformed input.
func ParseAmountStrict(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is empty", ErrInvalidAmount)
	}

	d, err := parseDecimal(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}

	return d, nil
}

// parseDecimal accepts plain decimal notation only. Exponent forms such as
// "1e900000000" would make later arithmetic rescale to huge powers of ten.
func parseDecimal(s string) (decimal.Decimal, error) {
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, errNotPlainDecimal
	}

	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits > MaxAmountDigits {
		return decimal.Zero, errNotPlainDecimal
	}

	return decimal.NewFromString(s)
}

var errNotPlainDecimal = errors.New("amount must be a plain decimal number")

// CurrencyScale returns the number of minor-unit digits for an ISO 4217 code.
func CurrencyScale(code string) int32 {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return DefaultCurrencyScale
	}

	scale, _ := currency.Standard.Rounding(unit)

	return int32(scale)
}

// FormatAmount renders an amount with the currency's fixed number of decimals.
// Amounts finer than the currency scale keep their extra digits so a nonzero
// value never renders as zero.
func FormatAmount(amount decimal.Decimal, code string) string {
	scale := CurrencyScale(code)
	if exp := -amount.Exponent(); exp > scale && !amount.Round(scale).Equal(amount) {
		scale = exp
	}
	return amount.StringFixed(scale)
}
