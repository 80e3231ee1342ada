package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned before any store call when the range is
	// missing or its start is after its end.
	ErrInvalidRange = errors.New("ledger: invalid range")
	// ErrUnauthenticated means there is no current user or the store
	// rejected the owner identity.
	ErrUnauthenticated = errors.New("ledger: unauthenticated")
	// ErrStoreUnavailable means the store could not be reached.
	ErrStoreUnavailable = errors.New("ledger: store unavailable")
	// ErrNotFound means an update targeted a row that does not exist for the owner.
	ErrNotFound = errors.New("ledger: record not found")
	// ErrConflict means an insert collided with an existing (owner, date) row.
	ErrConflict = errors.New("ledger: record already exists")

	// Operation failures. Each is returned wrapping the store error that
	// caused it, so both match with errors.Is.
	ErrFetchFailed  = errors.New("ledger: fetch failed")
	ErrInsertFailed = errors.New("ledger: insert failed")
	ErrUpdateFailed = errors.New("ledger: update failed")
	ErrDeleteFailed = errors.New("ledger: delete failed")
)

// wrap tags a store error with the operation that failed while keeping the
// cause matchable with errors.Is.
func wrap(op, cause error) error {
	return fmt.Errorf("%w: %w", op, cause)
}
