package oslogin

import "errors"

var (
	// ErrNotFound reports that the payload carries no account entry for
	// the requested identity. Unparsable payloads read the same way: at
	// this layer a syntax error and well-formed-but-absent data are not
	// distinguished.
	ErrNotFound = errors.New("oslogin: account not found")

	// ErrInvalidData reports that the directory returned an entry whose
	// fields cannot form a valid account. Invalid data is never coerced
	// into a usable record.
	ErrInvalidData = errors.New("oslogin: invalid account data")
)
