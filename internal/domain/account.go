package domain

import (
	"time"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

var validAccountTypes = map[AccountType]bool{
	AccountTypeAsset:     true,
	AccountTypeLiability: true,
	AccountTypeEquity:    true,
	AccountTypeRevenue:   true,
	AccountTypeExpense:   true,
}

// IsValid checks if the account type is known.
func (t AccountType) IsValid() bool {
	return validAccountTypes[t]
}

// IsDebitNormal reports whether increases to the account are recorded as debits.
func (t AccountType) IsDebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is a node in a company's chart of accounts.
type Account struct {
	ID              string
	CompanyID       string
	AccountNumber   string
	Name            string
	ParentAccountID *string
	AccountType     AccountType
	Description     *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AccountWithDepth pairs an account with its depth in the chart (root = 0).
type AccountWithDepth struct {
	Account Account
	Depth   int
}

// Company is a legal entity inside an organization that keeps its own books.
type Company struct {
	ID                 string
	OrganizationID     string
	Name               string
	FunctionalCurrency string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
