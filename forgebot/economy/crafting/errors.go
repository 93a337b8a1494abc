package crafting

import (
	"errors"
	"fmt"
)

// Code identifies a craft failure for the presentation layer. Validation
// codes are always detected before any mutation; QUEUE_FULL is the one
// code that fires after resources were already committed.
type Code string

const (
	CodeAmountInvalid         Code = "AMOUNT_INVALID"
	CodeAmountTooLarge        Code = "AMOUNT_TOO_LARGE"
	CodeRecipeNotFound        Code = "RECIPE_NOT_FOUND"
	CodeMaterialsInsufficient Code = "MATERIALS_INSUFFICIENT"
	CodeCurrencyInsufficient  Code = "CURRENCY_INSUFFICIENT"
	CodeQueueFull             Code = "QUEUE_FULL"
	CodeNotFound              Code = "NOT_FOUND"
	CodeNotReady              Code = "NOT_READY"
)

// Shortfall names one resource the user lacks.
type Shortfall struct {
	Resource  string
	Required  int64
	Available int64
}

// CraftError carries a code plus structured shortfall detail so commands
// can render a precise message without parsing error strings.
type CraftError struct {
	Code        Code
	Message     string
	Shortfalls  []Shortfall
	Suggestions []string
}

func (e *CraftError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, format string, args ...interface{}) *CraftError {
	return &CraftError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrCode extracts the craft code from an error chain; empty when the
// error is not a CraftError.
func ErrCode(err error) Code {
	var ce *CraftError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsCode reports whether err carries the given craft code.
func IsCode(err error, code Code) bool {
	return ErrCode(err) == code
}
