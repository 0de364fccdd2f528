// Package chi exposes the matching engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
	batchuc "github.com/talentgrid/matchd/internal/usecase/batch"
	healthuc "github.com/talentgrid/matchd/internal/usecase/health"
	matchuc "github.com/talentgrid/matchd/internal/usecase/match"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the matching use cases.
type Server struct {
	matcher       *matchuc.Service
	batch         *batchuc.Service
	health        *healthuc.Service
	weights       *weights.Store
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	matcher *matchuc.Service,
	batch *batchuc.Service,
	health *healthuc.Service,
	weightStore *weights.Store,
	logger *zap.Logger,
) *Server {
	s := &Server{
		matcher:  matcher,
		batch:    batch,
		health:   health,
		weights:  weightStore,
		validate: validator.New(),
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRequirementNotFound, http.StatusNotFound, codeRequirementNotFound),
		sentinelHandler(domain.ErrCandidateNotFound, http.StatusNotFound, codeCandidateNotFound),
		sentinelHandler(domain.ErrMatchNotFound, http.StatusNotFound, codeMatchNotFound),
		sentinelHandler(domain.ErrInvalidWeights, http.StatusBadRequest, codeInvalidWeights),
		sentinelHandler(domain.ErrInvalidScore, http.StatusBadRequest, codeInvalidScore),
	}
	return s
}

// Routes mounts every endpoint on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/match", func(r chi.Router) {
		r.Post("/requirements/{requirementID}/candidates", s.matchRequirement)
		r.Post("/requirements/{requirementID}/recalculate", s.recalculateRequirement)
		r.Post("/candidates/{candidateID}/requirements", s.matchCandidate)
		r.Post("/batch", s.runBatch)

		r.Get("/preview/{requirementID}/{candidateID}", s.previewScore)
		r.Get("/scores/{requirementID}", s.listScores)
		r.Get("/scores/{requirementID}/{candidateID}", s.getScore)
		r.Post("/scores/{requirementID}/{candidateID}/override", s.overrideScore)
	})

	r.Get("/weights", s.getWeights)
	r.Put("/weights", s.putWeights)

	r.Get("/healthz", s.healthCheck)
	r.Get("/metrics", s.metrics)
}

// matchRequirement handles POST /match/requirements/{requirementID}/candidates.
func (s *Server) matchRequirement(w http.ResponseWriter, r *http.Request) {
	requirementID, ok := s.pathID(w, r, "requirementID")
	if !ok {
		return
	}
	var req matchQueryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	matches, err := s.matcher.MatchRequirementToCandidates(r.Context(), requirementID, req.Limit, req.MinScore)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankedListToResponse(matches))
}

// matchCandidate handles POST /match/candidates/{candidateID}/requirements.
func (s *Server) matchCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := s.pathID(w, r, "candidateID")
	if !ok {
		return
	}
	var req matchQueryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	matches, err := s.matcher.MatchCandidateToRequirements(r.Context(), candidateID, req.Limit, req.MinScore)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankedListToResponse(matches))
}

// runBatch handles POST /match/batch.
func (s *Server) runBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	stats, err := s.batch.MatchAll(r.Context(), req.MinScore)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchStatsToResponse(stats))
}

// recalculateRequirement handles POST /match/requirements/{requirementID}/recalculate.
func (s *Server) recalculateRequirement(w http.ResponseWriter, r *http.Request) {
	requirementID, ok := s.pathID(w, r, "requirementID")
	if !ok {
		return
	}

	stats, err := s.batch.RecalculateRequirement(r.Context(), requirementID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchStatsToResponse(stats))
}

// previewScore handles GET /match/preview/{requirementID}/{candidateID}.
// The score is computed fresh and never persisted.
func (s *Server) previewScore(w http.ResponseWriter, r *http.Request) {
	requirementID, candidateID, ok := s.pairIDs(w, r)
	if !ok {
		return
	}

	result, err := s.matcher.ScoreOne(r.Context(), requirementID, candidateID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchResultToResponse(result))
}

// getScore handles GET /match/scores/{requirementID}/{candidateID}.
func (s *Server) getScore(w http.ResponseWriter, r *http.Request) {
	requirementID, candidateID, ok := s.pairIDs(w, r)
	if !ok {
		return
	}

	result, err := s.matcher.GetStoredScore(r.Context(), requirementID, candidateID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchResultToResponse(result))
}

// listScores handles GET /match/scores/{requirementID}.
func (s *Server) listScores(w http.ResponseWriter, r *http.Request) {
	requirementID, ok := s.pathID(w, r, "requirementID")
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	results, total, err := s.matcher.ListRequirementScores(r.Context(), requirementID, limit, offset)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]matchResultResponse, len(results))
	for i, m := range results {
		items[i] = matchResultToResponse(m)
	}
	writeJSON(w, http.StatusOK, storedListResponse{Items: items, Total: total})
}

// overrideScore handles POST /match/scores/{requirementID}/{candidateID}/override.
func (s *Server) overrideScore(w http.ResponseWriter, r *http.Request) {
	requirementID, candidateID, ok := s.pairIDs(w, r)
	if !ok {
		return
	}
	var req overrideRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := s.batch.Override(r.Context(), requirementID, candidateID, req.Score, req.Notes)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchResultToResponse(result))
}

// getWeights handles GET /weights.
func (s *Server) getWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, weightsToPayload(s.weights.Current()))
}

// putWeights handles PUT /weights. The new vector is validated and swapped
// atomically; in-flight scoring keeps its captured snapshot.
func (s *Server) putWeights(w http.ResponseWriter, r *http.Request) {
	var req weightsPayload
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if err := s.weights.Set(req.toVector()); err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.logger.Info("weight vector updated", zap.Float64("sum", req.toVector().Sum()))
	writeJSON(w, http.StatusOK, weightsToPayload(s.weights.Current()))
}

// healthCheck handles GET /healthz.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeAndValidate decodes the JSON body into v and runs struct validation.
// An empty body decodes to the zero value of v.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return false
	}
	return true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, name+" must be an integer")
		return 0, false
	}
	return id, true
}

func (s *Server) pairIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	requirementID, ok := s.pathID(w, r, "requirementID")
	if !ok {
		return 0, 0, false
	}
	candidateID, ok := s.pathID(w, r, "candidateID")
	if !ok {
		return 0, 0, false
	}
	return requirementID, candidateID, true
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRequirementNotFound,
		domain.ErrCandidateNotFound,
		domain.ErrMatchNotFound,
		domain.ErrInvalidWeights,
		domain.ErrInvalidScore,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
