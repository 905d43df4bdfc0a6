// Package windrose re-exports the SDK from pkg/sdk so callers can
// import the module path directly.
package windrose

import (
	sdk "github.com/windrose-search/windrose/pkg/sdk"
)

// Core SDK types.
type (
	Client         = sdk.Client
	Query          = sdk.Query
	Result         = sdk.Result
	Response       = sdk.Response
	EngineReport   = sdk.EngineReport
	EngineStatus   = sdk.EngineStatus
	Health         = sdk.Health
	Option         = sdk.Option
	EngineSettings = sdk.EngineSettings
)

// New creates a windrose Client. At least one engine option is required.
var New = sdk.New

// Engine and client options.
var (
	WithDuckDuckGo         = sdk.WithDuckDuckGo
	WithBrave              = sdk.WithBrave
	WithMojeek             = sdk.WithMojeek
	WithSearXNG            = sdk.WithSearXNG
	WithBreaker            = sdk.WithBreaker
	WithTimeout            = sdk.WithTimeout
	WithCache              = sdk.WithCache
	WithStopWordRemoval    = sdk.WithStopWordRemoval
	WithSynonymExpansion   = sdk.WithSynonymExpansion
	WithoutSpellCorrection = sdk.WithoutSpellCorrection
	WithLogger             = sdk.WithLogger
	WithPrometheus         = sdk.WithPrometheus
)

// Sentinel errors. Use errors.Is() to check.
var (
	ErrEmptyQuery         = sdk.ErrEmptyQuery
	ErrUnknownEngine      = sdk.ErrUnknownEngine
	ErrMissingCredentials = sdk.ErrMissingCredentials
	ErrBadStatus          = sdk.ErrBadStatus
	ErrMalformedResponse  = sdk.ErrMalformedResponse
)
