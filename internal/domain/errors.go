package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart: no line in the submitted cart has qty > 0.
	ErrEmptyCart = errors.New("cart has no orderable items")
	// ErrDuplicateSubmission: the presented token was already consumed
	// (replay) or the session holds no pending draft.
	ErrDuplicateSubmission = errors.New("order already submitted")
	// ErrProductNotFound: code is unknown to the ledger or display-only.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound: no order row with the given id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrLedgerUnavailable: transient I/O failure talking to the ledger.
	// Retryable by the caller; never auto-retried internally.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
)

// InsufficientStockError reports the first item whose requested quantity
// exceeds the stock available at commit time. The batch is rejected as a
// whole; Available tells the buyer how many remain.
type InsufficientStockError struct {
	Code      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%d left)", e.Code, e.Available)
}

// InvalidQuantityError reports a non-positive ordered quantity.
type InvalidQuantityError struct {
	Code string
	Qty  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for %s", e.Qty, e.Code)
}
