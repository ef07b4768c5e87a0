package domain

import "errors"

var (
	// Company errors
	ErrCompanyNotFound = errors.New("company not found")

	// Account errors
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrAccountCompany        = errors.New("account belongs to a different company")
	ErrInvalidAccountType    = errors.New("invalid account type")
	ErrInvalidAccountNumber  = errors.New("invalid account number")
	ErrDuplicateAccount      = errors.New("account number already exists")
	ErrAccountHierarchyCycle = errors.New("account hierarchy contains a cycle")

	// Journal entry errors
	ErrJournalEntryNotFound    = errors.New("journal entry not found")
	ErrValidation              = errors.New("journal entry failed validation")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidStatusTransition = errors.New("invalid journal entry status transition")
	ErrEntryNotEditable        = errors.New("journal entry is not editable")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrLineNotFound            = errors.New("journal entry line not found")
)
