package artwork

import "errors"

// Sentinel errors for the artwork package.
var (
	// ErrAlreadyPresent signals that the destination file already exists.
	// Not a true failure: existing artwork is never overwritten, so the
	// caller treats this as an idempotent no-op.
	ErrAlreadyPresent = errors.New("asset already present")

	// ErrNoCandidate is returned when the provider yields no usable image
	// for the requested slot and policy.
	ErrNoCandidate = errors.New("no artwork candidate available")

	// ErrUnknownSeason is returned when the requested season index is not
	// in the item's catalog snapshot.
	ErrUnknownSeason = errors.New("season not in catalog snapshot")

	// ErrStoreBusy is returned when a migration holds the store lock.
	ErrStoreBusy = errors.New("asset store locked by a migration")
)
