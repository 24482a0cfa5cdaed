// engine/errors.go
package engine

import (
	"errors"

	"github.com/rustyeddy/papertrade/position"
)

var (
	// ErrInvalidAmount rejects a non-positive trade size before any I/O.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientPosition rejects a sell larger than the open
	// quantity, before any price is fetched.
	ErrInsufficientPosition = position.ErrInsufficient

	// ErrPersistence means the ledger write failed after a price was
	// obtained. Nothing was recorded; the caller may retry the whole
	// operation (the quote may have moved, so the engine does not).
	ErrPersistence = errors.New("persistence failure")
)
