package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/windrose-search/windrose/internal/domain"
	"github.com/windrose-search/windrose/internal/domain/search/boost"
	"github.com/windrose-search/windrose/internal/domain/search/filter"
	"github.com/windrose-search/windrose/internal/domain/search/query"
	"github.com/windrose-search/windrose/internal/domain/search/result"
	"github.com/windrose-search/windrose/internal/registry"
	healthuc "github.com/windrose-search/windrose/internal/usecase/health"
	searchuc "github.com/windrose-search/windrose/internal/usecase/search"
)

// EngineLister reports the state of every registered engine.
// Implemented by *registry.Registry.
type EngineLister interface {
	StatusAll(ctx context.Context) []registry.Status
}

// Server exposes the aggregator over a JSON API.
type Server struct {
	search  *searchuc.Service
	health  *healthuc.Service
	engines EngineLister
	boost   *boost.Config
	timeout time.Duration
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	engines EngineLister,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:  search,
		health:  health,
		engines: engines,
		logger:  logger,
	}
}

// WithBoost wires operator-supplied boost inputs into every search.
func (s *Server) WithBoost(cfg *boost.Config) *Server {
	s.boost = cfg
	return s
}

// WithTimeout sets the overall budget for each search request.
func (s *Server) WithTimeout(d time.Duration) *Server {
	s.timeout = d
	return s
}

// Mount attaches all routes to the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/api/v1/search", s.Search)
	r.Get("/api/v1/engines", s.Engines)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q, opts, err := searchParamsFromRequest(r)
	if err != nil {
		code := CodeValidationFailed
		if errors.Is(err, domain.ErrEmptyQuery) {
			err = errors.New("query parameter q is required")
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}
	opts.Boost = s.boost
	opts.Timeout = s.timeout

	resp, err := s.search.Search(r.Context(), q, opts)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
		return
	}

	items := make([]ResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = resultToDTO(&resp.Results[i])
	}
	engines := make([]EngineTelemetry, len(resp.Engines))
	for i, t := range resp.Engines {
		engines[i] = telemetryToDTO(t)
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:        q.Text(),
		Results:      items,
		Engines:      engines,
		TotalResults: resp.TotalResults,
		ElapsedMS:    resp.Elapsed.Milliseconds(),
		Partial:      resp.Partial,
	})
}

// Engines handles GET /api/v1/engines.
func (s *Server) Engines(w http.ResponseWriter, r *http.Request) {
	statuses := s.engines.StatusAll(r.Context())
	items := make([]EngineStatus, len(statuses))
	for i, st := range statuses {
		items[i] = statusToDTO(st)
	}
	writeJSON(w, http.StatusOK, map[string][]EngineStatus{"engines": items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthToDTO(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchParamsFromRequest(r *http.Request) (query.Query, searchuc.Options, error) {
	params := r.URL.Query()

	page, err := intParam(params.Get("page"), "page")
	if err != nil {
		return query.Query{}, searchuc.Options{}, err
	}
	pageSize, err := intParam(params.Get("page_size"), "page_size")
	if err != nil {
		return query.Query{}, searchuc.Options{}, err
	}

	safe := boolParam(params.Get("safe"))

	q, err := query.New(params.Get("q"), page, pageSize,
		params.Get("site"), params.Get("category"), safe)
	if err != nil {
		return query.Query{}, searchuc.Options{}, err
	}

	opts := searchuc.Options{
		Engines: csvParam(params.Get("engines")),
	}

	constraints := filter.Constraints{
		IndieOnly:    boolParam(params.Get("indie_only")),
		PrivacyOnly:  boolParam(params.Get("privacy_only")),
		NoTrackers:   boolParam(params.Get("no_trackers")),
		ContentTypes: contentTypesParam(params.Get("content_types")),
	}
	if !constraints.IsEmpty() {
		opts.Filter = &constraints
	}

	return q, opts, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}

func boolParam(raw string) bool {
	return raw == "true" || raw == "1"
}

func csvParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contentTypesParam(raw string) []result.ContentType {
	parts := csvParam(raw)
	if len(parts) == 0 {
		return nil
	}
	out := make([]result.ContentType, len(parts))
	for i, p := range parts {
		out[i] = result.ContentType(p)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
