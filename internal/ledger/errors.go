package ledger

import "errors"

// Validation errors. They are returned before anything is staged.
var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrUnknownCurrency       = errors.New("unknown currency")
	ErrMissingCurrency       = errors.New("currency is required with an explicit second amount")
	ErrUnknownCategory       = errors.New("unknown category")
	ErrBlankCategory         = errors.New("category label is blank")
	ErrDuplicateCategory     = errors.New("category already exists")
	ErrReservedCategory      = errors.New("category is reserved")
	ErrInvalidBaseCurrencies = errors.New("invalid base currencies")
	ErrUnknownRankStrategy   = errors.New("unknown rank strategy")
)

// Lookup errors.
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSettingsNotFound    = errors.New("ledger settings not initialized")
)

// IsValidation reports whether err is one of the validation errors above.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount,
		ErrUnknownCurrency,
		ErrMissingCurrency,
		ErrUnknownCategory,
		ErrBlankCategory,
		ErrReservedCategory,
		ErrInvalidBaseCurrencies,
		ErrUnknownRankStrategy,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTransactionNotFound) || errors.Is(err, ErrCategoryNotFound)
}
