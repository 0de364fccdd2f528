package batch

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

// CandidateReader pages through active candidate profiles.
type CandidateReader interface {
	ListActive(ctx context.Context, offset, limit int) ([]domain.Candidate, error)
}

// FeedbackReader loads interview feedback used for culture scoring.
type FeedbackReader interface {
	ListForCandidate(ctx context.Context, candidateID int64) ([]domain.InterviewFeedback, error)
}

// MatchWriter persists match scores. Upsert is keyed by
// (requirement_id, candidate_id) and must be safe against concurrent writes
// to the same pair; it reports whether a new row was created. Override
// rewrites only the overall score, provenance, notes and timestamp of an
// existing row.
type MatchWriter interface {
	Upsert(ctx context.Context, result domain.MatchResult) (created bool, err error)
	Override(ctx context.Context, requirementID, candidateID int64, score float64, notes string) (domain.MatchResult, error)
}

// WeightSource yields a snapshot of the active weight vector. A batch run
// captures one snapshot at start and uses it for every pair in the run.
type WeightSource interface {
	Current() weights.Vector
}
