package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrNoSession           = errors.New("no active checkout session")
	ErrPaymentInProgress   = errors.New("payment is already being processed")
	IllegalTransitionError = errors.New("illegal transition of checkout step")
)

// ValidationError carries one message per invalid field. All validation
// failures are recoverable: the caller corrects input and retries the same
// transition.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}
