package domain

import "github.com/shopspring/decimal"

// AccountActivity is the summed posted debits and credits of one account.
type AccountActivity struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// TrialBalanceRow is one account line of a trial balance. A net debit
// position lands in Debit, a net credit position in Credit.
type TrialBalanceRow struct {
	Account Account
	Depth   int
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// TrialBalance lists every account of the chart with its closing position.
type TrialBalance struct {
	CompanyID    string
	FiscalYear   int
	FiscalPeriod int
	Currency     string
	Rows         []TrialBalanceRow
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	IsBalanced   bool
}

// BuildTrialBalance places account activity onto an already flattened
// chart. Rows keep the hierarchy order. Activity for accounts outside the
// chart is ignored.
func BuildTrialBalance(hierarchy []AccountWithDepth, activity []AccountActivity) TrialBalance {
	nets := netActivity(activity)

	tb := TrialBalance{
		Rows:         make([]TrialBalanceRow, 0, len(hierarchy)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, item := range hierarchy {
		row := TrialBalanceRow{
			Account: item.Account,
			Depth:   item.Depth,
			Debit:   decimal.Zero,
			Credit:  decimal.Zero,
		}

		if net, ok := nets[item.Account.ID]; ok {
			if net.IsNegative() {
				row.Credit = net.Neg()
			} else {
				row.Debit = net
			}
		}

		tb.TotalDebits = tb.TotalDebits.Add(row.Debit)
		tb.TotalCredits = tb.TotalCredits.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}

	tb.IsBalanced = tb.TotalDebits.Equal(tb.TotalCredits)

	return tb
}

// StatementLine is one account on a balance sheet or income statement.
// Amount is signed toward the account's normal side, so a liability with a
// credit balance is positive.
type StatementLine struct {
	Account Account
	Depth   int
	Amount  decimal.Decimal
}

// StatementSection groups the accounts of one type with their total.
type StatementSection struct {
	AccountType AccountType
	Lines       []StatementLine
	Total       decimal.Decimal
}

// BalanceSheet states the financial position at the end of a period.
// Activity covers the fiscal year to date, so the year's net income is
// carried as CurrentEarnings alongside equity.
type BalanceSheet struct {
	CompanyID                 string
	FiscalYear                int
	FiscalPeriod              int
	Currency                  string
	Assets                    StatementSection
	Liabilities               StatementSection
	Equity                    StatementSection
	CurrentEarnings           decimal.Decimal
	TotalLiabilitiesAndEquity decimal.Decimal
	IsBalanced                bool
}

// IncomeStatement states revenue and expenses for the fiscal year to date.
type IncomeStatement struct {
	CompanyID    string
	FiscalYear   int
	FiscalPeriod int
	Currency     string
	Revenue      StatementSection
	Expenses     StatementSection
	NetIncome    decimal.Decimal
}

// BuildBalanceSheet places activity on the asset, liability and equity
// accounts of the chart. Assets must equal liabilities plus equity plus the
// year's earnings.
func BuildBalanceSheet(hierarchy []AccountWithDepth, activity []AccountActivity) BalanceSheet {
	nets := netActivity(activity)

	bs := BalanceSheet{
		Assets:      buildSection(AccountTypeAsset, hierarchy, nets),
		Liabilities: buildSection(AccountTypeLiability, hierarchy, nets),
		Equity:      buildSection(AccountTypeEquity, hierarchy, nets),
	}

	revenue := buildSection(AccountTypeRevenue, hierarchy, nets)
	expenses := buildSection(AccountTypeExpense, hierarchy, nets)
	bs.CurrentEarnings = revenue.Total.Sub(expenses.Total)

	bs.TotalLiabilitiesAndEquity = bs.Liabilities.Total.Add(bs.Equity.Total).Add(bs.CurrentEarnings)
	bs.IsBalanced = bs.Assets.Total.Equal(bs.TotalLiabilitiesAndEquity)

	return bs
}

// BuildIncomeStatement places activity on the revenue and expense accounts.
// NetIncome is revenue minus expenses; a loss is negative.
func BuildIncomeStatement(hierarchy []AccountWithDepth, activity []AccountActivity) IncomeStatement {
	nets := netActivity(activity)

	is := IncomeStatement{
		Revenue:  buildSection(AccountTypeRevenue, hierarchy, nets),
		Expenses: buildSection(AccountTypeExpense, hierarchy, nets),
	}
	is.NetIncome = is.Revenue.Total.Sub(is.Expenses.Total)

	return is
}

// netActivity sums debits minus credits per account.
func netActivity(activity []AccountActivity) map[string]decimal.Decimal {
	nets := make(map[string]decimal.Decimal, len(activity))
	for _, a := range activity {
		cur, ok := nets[a.AccountID]
		if !ok {
			cur = decimal.Zero
		}
		nets[a.AccountID] = cur.Add(a.Debit).Sub(a.Credit)
	}
	return nets
}

func buildSection(accountType AccountType, hierarchy []AccountWithDepth, nets map[string]decimal.Decimal) StatementSection {
	section := StatementSection{
		AccountType: accountType,
		Lines:       []StatementLine{},
		Total:       decimal.Zero,
	}

	for _, item := range hierarchy {
		if item.Account.AccountType != accountType {
			continue
		}

		amount := decimal.Zero
		if net, ok := nets[item.Account.ID]; ok {
			amount = net
			if !accountType.IsDebitNormal() {
				amount = net.Neg()
			}
		}

		section.Lines = append(section.Lines, StatementLine{
			Account: item.Account,
			Depth:   item.Depth,
			Amount:  amount,
		})
		section.Total = section.Total.Add(amount)
	}

	return section
}
