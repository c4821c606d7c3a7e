package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"mm1calc/internal/analysis"
	"mm1calc/internal/queue"
)

type errorResponse struct {
	Error       string  `json:"error"`
	Kind        string  `json:"kind"`
	Verdict     string  `json:"verdict,omitempty"`
	ArrivalRate float64 `json:"arrival_rate,omitempty"`
	ServiceRate float64 `json:"service_rate,omitempty"`
}

var internalError = []byte(`{"error":"internal error","kind":"internal"}` + "\n")

// writeJSON marshals v before writing the status. A value that cannot be
// encoded is logged and answered with a 500.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode response",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Int("status", code),
			zap.Error(err),
		)
		code, body = http.StatusInternalServerError, internalError
	} else {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"server": "mm1calc",
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleAnalysisQuery(w http.ResponseWriter, r *http.Request) {
	cfg, err := configFromQuery(r.URL.Query())
	if err != nil {
		s.writeAnalysisError(w, r, err)
		return
	}
	s.respondAnalysis(w, r, cfg)
}

func (s *Server) handleAnalysisBody(w http.ResponseWriter, r *http.Request) {
	cfg := analysis.DefaultConfig()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		s.writeAnalysisError(w, r, fmt.Errorf("%w: malformed request body: %v", queue.ErrInvalidInput, err))
		return
	}
	s.respondAnalysis(w, r, cfg)
}

func (s *Server) respondAnalysis(w http.ResponseWriter, r *http.Request, cfg analysis.Config) {
	report, err := s.analyze(cfg)
	if err != nil {
		s.writeAnalysisError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, report)
}

// analyze runs one analysis and counts its outcome.
func (s *Server) analyze(cfg analysis.Config) (*analysis.Report, error) {
	report, err := analysis.Run(cfg)
	outcome := outcomeOf(report, err)
	s.analyses.WithLabelValues(outcome).Inc()
	return report, err
}

func outcomeOf(r *analysis.Report, err error) string {
	switch {
	case errors.Is(err, queue.ErrUnstableSystem):
		return queue.Unstable.String()
	case errors.Is(err, queue.ErrInvalidInput):
		return "invalid"
	case err != nil:
		return "error"
	}
	return r.Verdict.String()
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var unstable *queue.UnstableError
	switch {
	case errors.As(err, &unstable):
		s.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
			Error:       err.Error(),
			Kind:        "unstable_system",
			Verdict:     unstable.Verdict().String(),
			ArrivalRate: unstable.ArrivalRate,
			ServiceRate: unstable.ServiceRate,
		})
	case errors.Is(err, queue.ErrInvalidInput):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "invalid_input"})
	default:
		s.log.Error("analysis failed", zap.String("request_id", requestIDFrom(r.Context())), zap.Error(err))
		s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "internal"})
	}
}

// configFromQuery overlays the query parameters that are present on the
// default configuration.
func configFromQuery(q url.Values) (analysis.Config, error) {
	cfg := analysis.DefaultConfig()

	floats := map[string]*float64{
		"arrival_rate":    &cfg.ArrivalRate,
		"service_time":    &cfg.ServiceTime,
		"unit_conversion": &cfg.UnitConversion,
	}
	for key, dst := range floats {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: %s: %q is not a number", queue.ErrInvalidInput, key, v)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"n":     &cfg.N,
		"n_max": &cfg.NMax,
	}
	for key, dst := range ints {
		if v := q.Get(key); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				return cfg, fmt.Errorf("%w: %s: %q is not an integer", queue.ErrInvalidInput, key, v)
			}
			*dst = i
		}
	}

	if v := q.Get("time_unit"); v != "" {
		cfg.TimeUnit = v
	}
	if v := q.Get("service_time_unit"); v != "" {
		cfg.ServiceTimeUnit = v
	}
	if ps, ok := q["percentile"]; ok {
		cfg.Percentiles = cfg.Percentiles[:0]
		for _, v := range ps {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: percentile: %q is not a number", queue.ErrInvalidInput, v)
			}
			cfg.Percentiles = append(cfg.Percentiles, p)
		}
	}
	return cfg, nil
}
