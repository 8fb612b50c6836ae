package shared

import "errors"

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a write payload that fails business rules.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDerivationUnavailable indicates a source-table fetch failed, so no
	// view may be rendered: callers get this instead of a partial picture.
	ErrDerivationUnavailable = errors.New("derivation unavailable")
	// ErrEditWindowClosed indicates the invoice is confirmed or older than
	// the edit window and has become append-only.
	ErrEditWindowClosed = errors.New("edit window closed")
	// ErrInvalidStatus indicates a status transition that is not allowed.
	ErrInvalidStatus = errors.New("invalid status transition")
)

// EditWindowDays bounds how long an unconfirmed invoice stays mutable.
const EditWindowDays = 7
