// Package secrets persists the single client credential: the session token.
//
// The store holds at most one token value at a time. It is written on
// successful login or registration, read on every outgoing HTTP request and
// at startup for silent resume, and deleted on logout or on any 401 observed
// at the HTTP layer.
package secrets

import "errors"

// ErrNotFound is returned by Load when no token is stored.
var ErrNotFound = errors.New("token not found")

// Store abstracts persistence for the session token.
type Store interface {
	// Save stores the token, replacing any previous value.
	Save(token string) error

	// Load returns the stored token or ErrNotFound.
	Load() (string, error)

	// Delete removes the stored token. Deleting an absent token is a no-op.
	Delete() error
}
