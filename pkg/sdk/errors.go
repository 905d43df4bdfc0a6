package windrose

import "github.com/windrose-search/windrose/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery         = domain.ErrEmptyQuery
	ErrUnknownEngine      = domain.ErrUnknownEngine
	ErrMissingCredentials = domain.ErrMissingCredentials
	ErrBadStatus          = domain.ErrBadStatus
	ErrMalformedResponse  = domain.ErrMalformedResponse
)
