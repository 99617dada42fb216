package repository

import "errors"

// Common errors for repository operations.
var (
	// ErrAccountNotFound is returned when no account exists for the given ID.
	ErrAccountNotFound = errors.New("account not found")

	// ErrStoreUnavailable is returned when the backing persistence cannot be
	// reached or a query does not complete within its bounded timeout.
	// Operations failing with it leave no partial mutation behind and are
	// safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
