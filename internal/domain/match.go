package domain

import "time"

// MatchStatus is the review state of a persisted match.
type MatchStatus string

const (
	// MatchPending is the initial state of a system-scored match.
	MatchPending MatchStatus = "pending"
	// MatchMatched marks a confirmed match.
	MatchMatched MatchStatus = "matched"
	// MatchShortlisted marks a match selected for submission.
	MatchShortlisted MatchStatus = "shortlisted"
	// MatchRejected marks a dismissed match.
	MatchRejected MatchStatus = "rejected"
)

// Provenance of a match score.
const (
	// MatchedBySystem marks a score produced by the aggregator.
	MatchedBySystem = "system"
	// MatchedByManualOverride marks a score written by a recruiter.
	MatchedByManualOverride = "manual_override"
)

// MatchResult is the scored outcome of one (requirement, candidate) pair.
// Unique per pair; batch runs upsert it in place, never duplicate it.
type MatchResult struct {
	RequirementID int64
	CandidateID   int64

	OverallScore      float64
	SkillScore        float64
	ExperienceScore   float64
	EducationScore    float64
	LocationScore     float64
	RateScore         float64
	AvailabilityScore float64
	CultureScore      float64

	MissingSkills     []string
	StandoutQualities []string
	ScoreBreakdown    map[string]float64

	Status    MatchStatus
	MatchedAt time.Time
	MatchedBy string
	Notes     string
}

// RankedMatch is one entry of a directional ranking. Exactly one of the
// requirement/candidate identity blocks carries meaning depending on the
// match direction; the other echoes the fixed side of the query.
type RankedMatch struct {
	RequirementID    int64
	RequirementTitle string
	CandidateID      int64
	CandidateName    string
	CandidateEmail   string

	Result MatchResult
}

// BatchStats summarizes one batch or recalculation run. Per-pair failures
// are counted in Errors and never abort the run.
type BatchStats struct {
	RunID             string
	RequirementsTotal int
	CandidatesTotal   int
	Created           int
	Updated           int
	Skipped           int
	Errors            int
}
