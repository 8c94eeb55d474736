package backend

import "errors"

var (
	// ErrProviderInit means a client could not be built, usually a missing
	// API key or an unknown backend name.
	ErrProviderInit = errors.New("provider initialization failed")

	// ErrTransport covers network failures, non-success statuses and
	// undecodable responses.
	ErrTransport = errors.New("provider transport error")

	// ErrNotFound means the provider does not know the requested resource.
	ErrNotFound = errors.New("provider resource not found")
)
