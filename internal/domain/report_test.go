package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrialBalance(t *testing.T) {
	hierarchy, err := BuildHierarchicalList([]Account{
		acct("assets", "1000", "Assets", nil),
		acct("cash", "1010", "Cash", strPtr("assets")),
		acct("rev", "4000", "Revenue", nil),
		acct("unused", "5000", "Unused", nil),
	})
	require.NoError(t, err)

	activity := []AccountActivity{
		{AccountID: "cash", Debit: decimal.RequireFromString("150.00"), Credit: decimal.RequireFromString("20.00")},
		{AccountID: "rev", Debit: decimal.Zero, Credit: decimal.RequireFromString("130.00")},
		{AccountID: "ghost", Debit: decimal.NewFromInt(1), Credit: decimal.Zero},
	}

	tb := BuildTrialBalance(hierarchy, activity)

	require.Len(t, tb.Rows, 4)
	assert.Equal(t, "1000", tb.Rows[0].Account.AccountNumber)
	assert.True(t, tb.Rows[0].Debit.IsZero())

	assert.Equal(t, 1, tb.Rows[1].Depth)
	assert.True(t, tb.Rows[1].Debit.Equal(decimal.NewFromInt(130)))
	assert.True(t, tb.Rows[1].Credit.IsZero())

	assert.True(t, tb.Rows[2].Credit.Equal(decimal.NewFromInt(130)))
	assert.True(t, tb.Rows[2].Debit.IsZero())

	assert.True(t, tb.TotalDebits.Equal(decimal.NewFromInt(130)))
	assert.True(t, tb.TotalCredits.Equal(decimal.NewFromInt(130)))
	assert.True(t, tb.IsBalanced)
}

func TestBuildTrialBalance_Unbalanced(t *testing.T) {
	hierarchy := []AccountWithDepth{{Account: acct("a", "1", "A", nil)}}

	tb := BuildTrialBalance(hierarchy, []AccountActivity{{AccountID: "a", Debit: decimal.NewFromInt(5), Credit: decimal.Zero}})

	assert.False(t, tb.IsBalanced)
}

func typed(id, number string, accountType AccountType, parent *string) Account {
	a := acct(id, number, number, parent)
	a.AccountType = accountType
	return a
}

func statementChart(t *testing.T) []AccountWithDepth {
	t.Helper()

	hierarchy, err := BuildHierarchicalList([]Account{
		typed("assets", "1000", AccountTypeAsset, nil),
		typed("cash", "1010", AccountTypeAsset, strPtr("assets")),
		typed("loan", "2000", AccountTypeLiability, nil),
		typed("capital", "3000", AccountTypeEquity, nil),
		typed("sales", "4000", AccountTypeRevenue, nil),
		typed("rent", "6000", AccountTypeExpense, nil),
	})
	require.NoError(t, err)
	return hierarchy
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildBalanceSheet(t *testing.T) {
	activity := []AccountActivity{
		{AccountID: "cash", Debit: dec("1800"), Credit: dec("200")},
		{AccountID: "loan", Debit: decimal.Zero, Credit: dec("500")},
		{AccountID: "capital", Debit: decimal.Zero, Credit: dec("1000")},
		{AccountID: "sales", Debit: decimal.Zero, Credit: dec("300")},
		{AccountID: "rent", Debit: dec("200"), Credit: decimal.Zero},
	}

	bs := BuildBalanceSheet(statementChart(t), activity)

	require.Len(t, bs.Assets.Lines, 2)
	assert.Equal(t, 1, bs.Assets.Lines[1].Depth)
	assert.True(t, bs.Assets.Lines[0].Amount.IsZero())
	assert.True(t, bs.Assets.Total.Equal(dec("1600")))
	assert.True(t, bs.Liabilities.Total.Equal(dec("500")))
	assert.True(t, bs.Equity.Total.Equal(dec("1000")))
	assert.True(t, bs.CurrentEarnings.Equal(dec("100")))
	assert.True(t, bs.TotalLiabilitiesAndEquity.Equal(dec("1600")))
	assert.True(t, bs.IsBalanced)
}

func TestBuildBalanceSheet_Unbalanced(t *testing.T) {
	bs := BuildBalanceSheet(statementChart(t), []AccountActivity{
		{AccountID: "cash", Debit: dec("10"), Credit: decimal.Zero},
	})

	assert.False(t, bs.IsBalanced)
	assert.NotNil(t, bs.Liabilities.Lines)
}

func TestBuildIncomeStatement(t *testing.T) {
	tests := []struct {
		name      string
		activity  []AccountActivity
		revenue   string
		expenses  string
		netIncome string
	}{
		{
			name: "profit",
			activity: []AccountActivity{
				{AccountID: "sales", Debit: decimal.Zero, Credit: dec("300")},
				{AccountID: "rent", Debit: dec("200"), Credit: decimal.Zero},
			},
			revenue: "300", expenses: "200", netIncome: "100",
		},
		{
			name: "loss with sales return",
			activity: []AccountActivity{
				{AccountID: "sales", Debit: dec("20"), Credit: dec("120")},
				{AccountID: "rent", Debit: dec("250"), Credit: decimal.Zero},
			},
			revenue: "100", expenses: "250", netIncome: "-150",
		},
		{
			name:    "no activity",
			revenue: "0", expenses: "0", netIncome: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := BuildIncomeStatement(statementChart(t), tt.activity)

			require.Len(t, is.Revenue.Lines, 1)
			require.Len(t, is.Expenses.Lines, 1)
			assert.Equal(t, AccountTypeRevenue, is.Revenue.AccountType)
			assert.True(t, is.Revenue.Total.Equal(dec(tt.revenue)), "revenue %s", is.Revenue.Total)
			assert.True(t, is.Expenses.Total.Equal(dec(tt.expenses)), "expenses %s", is.Expenses.Total)
			assert.True(t, is.NetIncome.Equal(dec(tt.netIncome)), "net income %s", is.NetIncome)
		})
	}
}
