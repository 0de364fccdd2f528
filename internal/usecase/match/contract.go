package match

import (
	"context"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
)

// RequirementReader loads requirement profiles.
type RequirementReader interface {
	Get(ctx context.Context, id int64) (domain.Requirement, error)
	ListActive(ctx context.Context) ([]domain.Requirement, error)
}

// CandidateReader loads candidate profiles. ListActive is paginated so the
// engine never holds more than one page of profiles.
type CandidateReader interface {
	Get(ctx context.Context, id int64) (domain.Candidate, error)
	ListActive(ctx context.Context, offset, limit int) ([]domain.Candidate, error)
}

// FeedbackReader loads interview feedback used for culture scoring.
type FeedbackReader interface {
	ListForCandidate(ctx context.Context, candidateID int64) ([]domain.InterviewFeedback, error)
}

// MatchReader reads persisted match scores.
type MatchReader interface {
	Get(ctx context.Context, requirementID, candidateID int64) (domain.MatchResult, error)
	ListForRequirement(ctx context.Context, requirementID int64, limit, offset int) ([]domain.MatchResult, int, error)
}

// WeightSource yields a snapshot of the active weight vector.
type WeightSource interface {
	Current() weights.Vector
}

// ResultCache caches ranked match lists. Implementations absorb their own
// failures: a broken cache degrades to recomputation, never to an error.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]domain.RankedMatch, bool)
	Set(ctx context.Context, key string, matches []domain.RankedMatch)
}
