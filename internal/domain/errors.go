package domain

import "errors"

var (
	// ErrEmptyQuery signals a search request with no query text.
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnknownEngine signals a reference to an unregistered engine.
	ErrUnknownEngine = errors.New("unknown engine")
	// ErrMissingCredentials signals an adapter invoked without its API key.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrBadStatus signals a non-2xx response from a search backend.
	ErrBadStatus = errors.New("unexpected response status")
	// ErrMalformedResponse signals an unparseable backend response body.
	ErrMalformedResponse = errors.New("malformed response")
)
