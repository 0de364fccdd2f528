// Package match implements directional, read-only ranking: one requirement
// against all active candidates, or one candidate against all active
// requirements. It never writes match rows; persistence belongs to the
// batch use case.
package match

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
	"github.com/talentgrid/matchd/internal/scoring"
)

// DefaultLimit caps a ranking when the caller does not supply a limit.
const DefaultLimit = 50

// candidatePageSize is how many candidate profiles are loaded per storage
// round-trip while scanning the active set.
const candidatePageSize = 200

// Service ranks candidates and requirements against each other.
type Service struct {
	reqs     RequirementReader
	cands    CandidateReader
	feedback FeedbackReader
	matches  MatchReader
	weights  WeightSource
	cache    ResultCache
	logger   *zap.Logger

	defaultLimit int
}

// New creates a match service. cache may be nil.
func New(
	reqs RequirementReader,
	cands CandidateReader,
	feedback FeedbackReader,
	matches MatchReader,
	weights WeightSource,
	cache ResultCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		reqs:         reqs,
		cands:        cands,
		feedback:     feedback,
		matches:      matches,
		weights:      weights,
		cache:        cache,
		logger:       logger,
		defaultLimit: DefaultLimit,
	}
}

// WithDefaultLimit configures the limit used when callers pass limit <= 0.
func (s *Service) WithDefaultLimit(limit int) *Service {
	if limit > 0 {
		s.defaultLimit = limit
	}
	return s
}

// MatchRequirementToCandidates scores one requirement against every active
// candidate and returns matches at or above minScore, sorted descending by
// overall score with stable input-order ties, truncated to limit. An
// unknown requirement yields an empty ranking, not an error.
func (s *Service) MatchRequirementToCandidates(
	ctx context.Context, requirementID int64, limit int, minScore float64,
) ([]domain.RankedMatch, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	w := s.weights.Current()
	key := requirementMatchesKey(requirementID, limit, minScore, w)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	req, err := s.reqs.Get(ctx, requirementID)
	if err != nil {
		if errors.Is(err, domain.ErrRequirementNotFound) {
			s.logger.Warn("requirement not found, returning empty ranking",
				zap.Int64("requirement_id", requirementID))
			return []domain.RankedMatch{}, nil
		}
		return nil, fmt.Errorf("get requirement %d: %w", requirementID, err)
	}

	var matches []domain.RankedMatch

	err = s.eachActiveCandidate(ctx, func(cand domain.Candidate) {
		result := scoring.Aggregate(req, cand, s.feedbackFor(ctx, cand.ID), w)
		if result.OverallScore < minScore {
			return
		}
		matches = append(matches, domain.RankedMatch{
			RequirementID:    req.ID,
			RequirementTitle: req.Title,
			CandidateID:      cand.ID,
			CandidateName:    cand.FullName,
			CandidateEmail:   cand.Email,
			Result:           result,
		})
	})
	if err != nil {
		return nil, err
	}

	matches = rankAndTruncate(matches, limit)
	if s.cache != nil {
		s.cache.Set(ctx, key, matches)
	}
	return matches, nil
}

// MatchCandidateToRequirements is the structural mirror: one candidate
// against every active requirement.
func (s *Service) MatchCandidateToRequirements(
	ctx context.Context, candidateID int64, limit int, minScore float64,
) ([]domain.RankedMatch, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	w := s.weights.Current()
	key := candidateMatchesKey(candidateID, limit, minScore, w)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	cand, err := s.cands.Get(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) {
			s.logger.Warn("candidate not found, returning empty ranking",
				zap.Int64("candidate_id", candidateID))
			return []domain.RankedMatch{}, nil
		}
		return nil, fmt.Errorf("get candidate %d: %w", candidateID, err)
	}

	reqs, err := s.reqs.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active requirements: %w", err)
	}

	feedback := s.feedbackFor(ctx, cand.ID)

	var matches []domain.RankedMatch
	for _, req := range reqs {
		result := scoring.Aggregate(req, cand, feedback, w)
		if result.OverallScore < minScore {
			continue
		}
		matches = append(matches, domain.RankedMatch{
			RequirementID:    req.ID,
			RequirementTitle: req.Title,
			CandidateID:      cand.ID,
			CandidateName:    cand.FullName,
			CandidateEmail:   cand.Email,
			Result:           result,
		})
	}

	matches = rankAndTruncate(matches, limit)
	if s.cache != nil {
		s.cache.Set(ctx, key, matches)
	}
	return matches, nil
}

// ScoreOne computes a fresh, unpersisted score for a single pair under the
// current weight snapshot. Unlike the directional rankings, unknown ids are
// reported as errors here.
func (s *Service) ScoreOne(ctx context.Context, requirementID, candidateID int64) (domain.MatchResult, error) {
	req, err := s.reqs.Get(ctx, requirementID)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("get requirement %d: %w", requirementID, err)
	}
	cand, err := s.cands.Get(ctx, candidateID)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("get candidate %d: %w", candidateID, err)
	}
	return scoring.Aggregate(req, cand, s.feedbackFor(ctx, cand.ID), s.weights.Current()), nil
}

// GetStoredScore returns the persisted match row for a pair.
func (s *Service) GetStoredScore(ctx context.Context, requirementID, candidateID int64) (domain.MatchResult, error) {
	return s.matches.Get(ctx, requirementID, candidateID)
}

// ListRequirementScores returns persisted match rows for a requirement,
// ordered by overall score descending, with the total row count.
func (s *Service) ListRequirementScores(
	ctx context.Context, requirementID int64, limit, offset int,
) ([]domain.MatchResult, int, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.matches.ListForRequirement(ctx, requirementID, limit, offset)
}

// eachActiveCandidate pages through the active candidate set.
func (s *Service) eachActiveCandidate(ctx context.Context, visit func(domain.Candidate)) error {
	for offset := 0; ; offset += candidatePageSize {
		page, err := s.cands.ListActive(ctx, offset, candidatePageSize)
		if err != nil {
			return fmt.Errorf("list active candidates at offset %d: %w", offset, err)
		}
		for _, cand := range page {
			visit(cand)
		}
		if len(page) < candidatePageSize {
			return nil
		}
	}
}

// feedbackFor loads interview feedback for culture scoring. Feedback is an
// optional signal: a read failure degrades to no feedback (neutral culture).
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

// rankAndTruncate sorts descending by overall score, keeping input order
// for ties, and cuts the list to limit.
func rankAndTruncate(matches []domain.RankedMatch, limit int) []domain.RankedMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Result.OverallScore > matches[j].Result.OverallScore
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []domain.RankedMatch{}
	}
	return matches
}

func requirementMatchesKey(requirementID int64, limit int, minScore float64, w weights.Vector) string {
	return fmt.Sprintf("matches:requirement:%d:%d:%.3f:%s", requirementID, limit, minScore, w.Fingerprint())
}

func candidateMatchesKey(candidateID int64, limit int, minScore float64, w weights.Vector) string {
	return fmt.Sprintf("matches:candidate:%d:%d:%.3f:%s", candidateID, limit, minScore, w.Fingerprint())
}
