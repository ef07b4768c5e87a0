package domain

import "github.com/shopspring/decimal"

// RunningBalance holds the live debit/credit totals of a set of form lines.
type RunningBalance struct {
	TotalDebits      decimal.Decimal
	TotalCredits     decimal.Decimal
	NetBalance       decimal.Decimal
	FormattedDebits  string
	FormattedCredits string
	FormattedBalance string
	IsBalanced       bool
}

// CalculateRunningBalance totals the debit and credit text of every line.
// Blank and unparsable amounts count as zero, so it is safe to call on every
// edit. NetBalance is debits minus credits.
func CalculateRunningBalance(lines []JournalEntryLine) RunningBalance {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero

	for _, line := range lines {
		totalDebits = totalDebits.Add(ParseAmount(line.DebitAmount))
		totalCredits = totalCredits.Add(ParseAmount(line.CreditAmount))
	}

	net := totalDebits.Sub(totalCredits)
	code := displayCurrency(lines)

	return RunningBalance{
		TotalDebits:      totalDebits,
		TotalCredits:     totalCredits,
		NetBalance:       net,
		FormattedDebits:  FormatAmount(totalDebits, code),
		FormattedCredits: FormatAmount(totalCredits, code),
		FormattedBalance: FormatAmount(net, code),
		IsBalanced:       net.IsZero(),
	}
}

// displayCurrency picks the currency used to format totals: the first line
// that carries one. All lines of an entry share the functional currency.
func displayCurrency(lines []JournalEntryLine) string {
	for _, line := range lines {
		if line.CurrencyCode != "" {
			return line.CurrencyCode
		}
	}
	return ""
}
