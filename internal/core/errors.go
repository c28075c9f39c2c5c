package core

import "errors"

// Domain error kinds. All of them are business-rule violations: callers
// should translate them for users, never retry them.
var (
	ErrNameTooShort                  = errors.New("name too short")
	ErrLimitTooLow                   = errors.New("limit too low")
	ErrInvalidMonetaryValue          = errors.New("invalid monetary value")
	ErrPeriodDayExceeded             = errors.New("period day exceeded")
	ErrInvalidDate                   = errors.New("invalid date")
	ErrBudgetAlreadyExists           = errors.New("budget already exists")
	ErrBudgetNotFound                = errors.New("budget not found")
	ErrPocketLimitExceedsBudgetLimit = errors.New("pocket limit exceeds budget limit")

	ErrCurrencyMismatch        = errors.New("currency mismatch")
	ErrMonetaryOverflow        = errors.New("monetary amount overflow")
	ErrNoOwners                = errors.New("budget has no owners")
	ErrUnknownCurrency         = errors.New("unknown currency")
	ErrUnknownPeriodKind       = errors.New("unknown period kind")
	ErrInvalidPeriod           = errors.New("period end before start")
	ErrPeriodTargetUnreachable = errors.New("period target unreachable within month")
)
