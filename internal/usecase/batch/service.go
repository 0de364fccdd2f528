// Package batch implements persisting match runs: the full
// requirement x candidate cross product, single-requirement recalculation,
// and the manual override escape hatch. Per-pair failures are counted and
// skipped; one bad pair never aborts a run.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
	"github.com/talentgrid/matchd/internal/metrics"
	"github.com/talentgrid/matchd/internal/scoring"
)

// DefaultPageSize is how many candidates are pulled per storage round-trip.
const DefaultPageSize = 200

// Service runs persisting match operations.
type Service struct {
	reqs     RequirementReader
	cands    CandidateReader
	feedback FeedbackReader
	matches  MatchWriter
	weights  WeightSource
	logger   *zap.Logger

	pageSize int
	now      func() time.Time
}

// New creates a batch service.
func New(
	reqs RequirementReader,
	cands CandidateReader,
	feedback FeedbackReader,
	matches MatchWriter,
	weights WeightSource,
	logger *zap.Logger,
) *Service {
	return &Service{
		reqs:     reqs,
		cands:    cands,
		feedback: feedback,
		matches:  matches,
		weights:  weights,
		logger:   logger,
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
}

// WithPageSize configures the candidate page size.
func (s *Service) WithPageSize(size int) *Service {
	if size > 0 {
		s.pageSize = size
	}
	return s
}

// MatchAll scores every active requirement against every active candidate
// and upserts a row for each pair at or above minScore. Pairs below the
// threshold are skipped silently. The weight vector is snapshotted once at
// the start of the run. An unreachable listing fails the run before any
// pair is processed.
func (s *Service) MatchAll(ctx context.Context, minScore float64) (domain.BatchStats, error) {
	stats := domain.BatchStats{RunID: uuid.NewString()}
	start := s.now()

	reqs, err := s.reqs.ListActive(ctx)
	if err != nil {
		return stats, fmt.Errorf("list active requirements: %w", err)
	}
	stats.RequirementsTotal = len(reqs)

	s.logger.Info("batch matching started",
		zap.String("run_id", stats.RunID),
		zap.Int("requirements", len(reqs)),
		zap.Float64("min_score", minScore),
	)

	w := s.weights.Current()

	err = s.eachActiveCandidate(ctx, func(cand domain.Candidate) {
		stats.CandidatesTotal++
		feedback := s.feedbackFor(ctx, cand.ID)
		for _, req := range reqs {
			s.scorePair(ctx, req, cand, feedback, w, &minScore, &stats)
		}
	})
	if err != nil {
		return stats, err
	}

	metrics.ObserveBatchRun(s.now().Sub(start), stats.Errors)
	s.logger.Info("batch matching completed",
		zap.String("run_id", stats.RunID),
		zap.Int("candidates", stats.CandidatesTotal),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	return stats, nil
}

// RecalculateRequirement rescores one requirement against every active
// candidate with the same upsert and error-isolation semantics as MatchAll.
// Every pair is persisted; recalculation applies no threshold.
func (s *Service) RecalculateRequirement(ctx context.Context, requirementID int64) (domain.BatchStats, error) {
	stats := domain.BatchStats{RunID: uuid.NewString()}
	start := s.now()

	req, err := s.reqs.Get(ctx, requirementID)
	if err != nil {
		return stats, fmt.Errorf("get requirement %d: %w", requirementID, err)
	}
	stats.RequirementsTotal = 1

	s.logger.Info("recalculating requirement matches",
		zap.String("run_id", stats.RunID),
		zap.Int64("requirement_id", requirementID),
	)

	w := s.weights.Current()

	err = s.eachActiveCandidate(ctx, func(cand domain.Candidate) {
		stats.CandidatesTotal++
		s.scorePair(ctx, req, cand, s.feedbackFor(ctx, cand.ID), w, nil, &stats)
	})
	if err != nil {
		return stats, err
	}

	metrics.ObserveBatchRun(s.now().Sub(start), stats.Errors)
	s.logger.Info("recalculation completed",
		zap.String("run_id", stats.RunID),
		zap.Int64("requirement_id", requirementID),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("errors", stats.Errors),
	)
	return stats, nil
}

// Override bypasses aggregation and writes the given overall score directly,
// marking the row as manually overridden. Stored component scores are left
// untouched. The pair must already have a match row.
func (s *Service) Override(
	ctx context.Context, requirementID, candidateID int64, score float64, notes string,
) (domain.MatchResult, error) {
	if score < 0 || score > 1 {
		return domain.MatchResult{}, fmt.Errorf(
			"override score must be within [0,1], got %v: %w", score, domain.ErrInvalidScore)
	}

	result, err := s.matches.Override(ctx, requirementID, candidateID, scoring.Round3(score), notes)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf(
			"override match %d/%d: %w", requirementID, candidateID, err)
	}

	s.logger.Info("match score overridden",
		zap.Int64("requirement_id", requirementID),
		zap.Int64("candidate_id", candidateID),
		zap.Float64("score", score),
	)
	return result, nil
}

// scorePair scores one pair and upserts the result. A nil minScore means no
// threshold. Upsert failures are isolated: counted, logged, and skipped.
func (s *Service) scorePair(
	ctx context.Context,
	req domain.Requirement,
	cand domain.Candidate,
	feedback []domain.InterviewFeedback,
	w weights.Vector,
	minScore *float64,
	stats *domain.BatchStats,
) {
	result := scoring.Aggregate(req, cand, feedback, w)
	metrics.PairsScoredTotal.Inc()

	if minScore != nil && result.OverallScore < *minScore {
		stats.Skipped++
		return
	}

	result.MatchedAt = s.now().UTC()
	created, err := s.matches.Upsert(ctx, result)
	if err != nil {
		stats.Errors++
		s.logger.Error("failed to persist match",
			zap.String("run_id", stats.RunID),
			zap.Int64("requirement_id", req.ID),
			zap.Int64("candidate_id", cand.ID),
			zap.Error(err),
		)
		return
	}
	if created {
		stats.Created++
	} else {
		stats.Updated++
	}
}

func (s *Service) eachActiveCandidate(ctx context.Context, visit func(domain.Candidate)) error {
	for offset := 0; ; offset += s.pageSize {
		page, err := s.cands.ListActive(ctx, offset, s.pageSize)
		if err != nil {
			return fmt.Errorf("list active candidates at offset %d: %w", offset, err)
		}
		for _, cand := range page {
			visit(cand)
		}
		if len(page) < s.pageSize {
			return nil
		}
	}
}

func (s *Service) feedbackFor(ctx context.Context, candidateID int64) []domain.InterviewFeedback {
	if s.feedback == nil {
		return nil
	}
	feedback, err := s.feedback.ListForCandidate(ctx, candidateID)
	if err != nil {
		s.logger.Debug("interview feedback unavailable",
			zap.Int64("candidate_id", candidateID), zap.Error(err))
		return nil
	}
	return feedback
}
