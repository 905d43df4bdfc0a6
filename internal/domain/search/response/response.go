// Package response defines the aggregated output of one federated search.
package response

import (
	"time"

	"github.com/windrose-search/windrose/internal/domain/search/result"
)

// Telemetry records one engine's outcome for a single request. Entries
// appear in the order engines were dispatched.
type Telemetry struct {
	EngineID    string
	Success     bool
	Latency     time.Duration
	ResultCount int
	Error       string
}

// Response is the merged, fused and boosted result of one search.
// Partial is true when at least one attempted engine failed; a response
// with zero eligible engines has Partial=false and no results.
type Response struct {
	Results      []result.Item
	Engines      []Telemetry
	TotalResults int
	Elapsed      time.Duration
	Partial      bool
}

// Attempted returns how many engines were dispatched.
func (r *Response) Attempted() int { return len(r.Engines) }

// Succeeded returns how many dispatched engines completed successfully.
func (r *Response) Succeeded() int {
	n := 0
	for _, e := range r.Engines {
		if e.Success {
			n++
		}
	}
	return n
}
