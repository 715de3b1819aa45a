package core

import "errors"

var (
	ErrInvalidType          = errors.New("unknown transaction type")
	ErrNonPositiveAmount    = errors.New("amount must be greater than 0")
	ErrInvalidDate          = errors.New("invalid date")
	ErrCategoryNotAllowed   = errors.New("category not allowed for transaction type")
	ErrPayerRequired        = errors.New("payer is required")
	ErrAdvanceTargetInvalid = errors.New("advance target only allowed on advance transactions")
	ErrSelfAdvance          = errors.New("payer and advance target must differ")
	ErrSameParty            = errors.New("from and to must differ")
	ErrNoConcreteParty      = errors.New("at least one side must be a household member")
	ErrNotAnAdvance         = errors.New("transaction is not an advance")
	ErrEmptyHousehold       = errors.New("household id is required")
)

// FieldError attributes a validation error to the input field that caused
// it, so callers can surface it next to the right form control.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
