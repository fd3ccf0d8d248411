package session

import "errors"

var (
	// ErrMalformedAuthResponse is returned when an authentication response
	// carries no bearer token under either accepted field name. Nothing is
	// persisted on this path.
	ErrMalformedAuthResponse = errors.New("authentication response malformed: no token")

	// ErrFederatedLoginUnsupported is the deterministic local failure for
	// federated login; the current backend has no support for it and the
	// call never reaches the network.
	ErrFederatedLoginUnsupported = errors.New("federated login not supported by backend")
)
