package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	engines EngineReporter
	store   StorePinger
}

// New creates a Service. store can be nil.
func New(engines EngineReporter, store StorePinger) *Service {
	return &Service{engines: engines, store: store}
}

// Check runs health checks against all components. The engine pool is
// healthy while at least one enabled engine is dispatchable; a tripped
// or unavailable engine degrades the report without failing it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dispatchable := 0
	enabled := 0
	for _, st := range s.engines.StatusAll(ctx) {
		if !st.Enabled {
			continue
		}
		enabled++
		if st.Available && !st.Tripped {
			dispatchable++
		}
	}
	if dispatchable > 0 {
		checks["engines"] = CheckOK
	} else {
		checks["engines"] = CheckError
	}

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			checks["breaker_store"] = CheckError
		} else {
			checks["breaker_store"] = CheckOK
		}
	}

	status := Healthy
	if checks["engines"] == CheckError {
		status = Unhealthy
	} else if dispatchable < enabled || checks["breaker_store"] == CheckError {
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
