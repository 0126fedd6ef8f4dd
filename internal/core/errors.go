package core

import (
	"errors"
	"fmt"
)

// Error kinds recognized by the boundary layer. Everything the services
// return wraps one of these so callers can errors.Is on the kind without
// knowing which component failed.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrUpstream   = errors.New("bank provider unavailable")
)

var (
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrValidation)
	ErrEmptyCategory    = fmt.Errorf("%w: empty category", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: empty name", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidTxnType   = fmt.Errorf("%w: type must be income or expense", ErrValidation)
	ErrInvalidAcctType  = fmt.Errorf("%w: unknown account type", ErrValidation)
	ErrInvalidPeriod    = fmt.Errorf("%w: period must be weekly, monthly or yearly", ErrValidation)
)
