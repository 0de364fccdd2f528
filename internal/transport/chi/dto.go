package chi

import (
	"time"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
)

// Error codes returned to clients.
type errorCode string

const (
	codeBadRequest          errorCode = "bad_request"
	codeValidationFailed    errorCode = "validation_failed"
	codeRequirementNotFound errorCode = "requirement_not_found"
	codeCandidateNotFound   errorCode = "candidate_not_found"
	codeMatchNotFound       errorCode = "match_not_found"
	codeInvalidWeights      errorCode = "invalid_weights"
	codeInvalidScore        errorCode = "invalid_score"
	codeInternalError       errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// matchQueryRequest drives both directional ranking endpoints. Zero limit
// means "use the server default".
type matchQueryRequest struct {
	Limit    int     `json:"limit"     validate:"gte=0,lte=500"`
	MinScore float64 `json:"min_score" validate:"gte=0,lte=1"`
}

type batchRequest struct {
	MinScore float64 `json:"min_score" validate:"gte=0,lte=1"`
}

type overrideRequest struct {
	Score float64 `json:"score" validate:"gte=0,lte=1"`
	Notes string  `json:"notes" validate:"max=2000"`
}

type weightsPayload struct {
	Skill        float64 `json:"skill"        validate:"gte=0,lte=1"`
	Experience   float64 `json:"experience"   validate:"gte=0,lte=1"`
	Education    float64 `json:"education"    validate:"gte=0,lte=1"`
	Location     float64 `json:"location"     validate:"gte=0,lte=1"`
	Rate         float64 `json:"rate"         validate:"gte=0,lte=1"`
	Availability float64 `json:"availability" validate:"gte=0,lte=1"`
	Culture      float64 `json:"culture"      validate:"gte=0,lte=1"`
}

func (p weightsPayload) toVector() weights.Vector {
	return weights.Vector{
		Skill:        p.Skill,
		Experience:   p.Experience,
		Education:    p.Education,
		Location:     p.Location,
		Rate:         p.Rate,
		Availability: p.Availability,
		Culture:      p.Culture,
	}
}

func weightsToPayload(v weights.Vector) weightsPayload {
	return weightsPayload{
		Skill:        v.Skill,
		Experience:   v.Experience,
		Education:    v.Education,
		Location:     v.Location,
		Rate:         v.Rate,
		Availability: v.Availability,
		Culture:      v.Culture,
	}
}

type matchResultResponse struct {
	RequirementID int64 `json:"requirement_id"`
	CandidateID   int64 `json:"candidate_id"`

	OverallScore      float64 `json:"overall_score"`
	SkillScore        float64 `json:"skill_score"`
	ExperienceScore   float64 `json:"experience_score"`
	EducationScore    float64 `json:"education_score"`
	LocationScore     float64 `json:"location_score"`
	RateScore         float64 `json:"rate_score"`
	AvailabilityScore float64 `json:"availability_score"`
	CultureScore      float64 `json:"culture_score"`

	MissingSkills     []string           `json:"missing_skills,omitempty"`
	StandoutQualities []string           `json:"standout_qualities,omitempty"`
	ScoreBreakdown    map[string]float64 `json:"score_breakdown,omitempty"`

	Status    string     `json:"status"`
	MatchedAt *time.Time `json:"matched_at,omitempty"`
	MatchedBy string     `json:"matched_by,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

func matchResultToResponse(m domain.MatchResult) matchResultResponse {
	resp := matchResultResponse{
		RequirementID:     m.RequirementID,
		CandidateID:       m.CandidateID,
		OverallScore:      m.OverallScore,
		SkillScore:        m.SkillScore,
		ExperienceScore:   m.ExperienceScore,
		EducationScore:    m.EducationScore,
		LocationScore:     m.LocationScore,
		RateScore:         m.RateScore,
		AvailabilityScore: m.AvailabilityScore,
		CultureScore:      m.CultureScore,
		MissingSkills:     m.MissingSkills,
		StandoutQualities: m.StandoutQualities,
		ScoreBreakdown:    m.ScoreBreakdown,
		Status:            string(m.Status),
		MatchedBy:         m.MatchedBy,
		Notes:             m.Notes,
	}
	if !m.MatchedAt.IsZero() {
		at := m.MatchedAt
		resp.MatchedAt = &at
	}
	return resp
}

type rankedMatchResponse struct {
	RequirementID    int64  `json:"requirement_id"`
	RequirementTitle string `json:"requirement_title,omitempty"`
	CandidateID      int64  `json:"candidate_id"`
	CandidateName    string `json:"candidate_name,omitempty"`
	CandidateEmail   string `json:"candidate_email,omitempty"`

	Result matchResultResponse `json:"result"`
}

type rankedListResponse struct {
	Items []rankedMatchResponse `json:"items"`
	Total int                   `json:"total"`
}

func rankedListToResponse(matches []domain.RankedMatch) rankedListResponse {
	items := make([]rankedMatchResponse, len(matches))
	for i, m := range matches {
		items[i] = rankedMatchResponse{
			RequirementID:    m.RequirementID,
			RequirementTitle: m.RequirementTitle,
			CandidateID:      m.CandidateID,
			CandidateName:    m.CandidateName,
			CandidateEmail:   m.CandidateEmail,
			Result:           matchResultToResponse(m.Result),
		}
	}
	return rankedListResponse{Items: items, Total: len(items)}
}

type storedListResponse struct {
	Items []matchResultResponse `json:"items"`
	Total int                   `json:"total"`
}

type batchStatsResponse struct {
	RunID             string `json:"run_id"`
	RequirementsTotal int    `json:"requirements_total"`
	CandidatesTotal   int    `json:"candidates_total"`
	Created           int    `json:"created"`
	Updated           int    `json:"updated"`
	Skipped           int    `json:"skipped"`
	Errors            int    `json:"errors"`
}

func batchStatsToResponse(s domain.BatchStats) batchStatsResponse {
	return batchStatsResponse{
		RunID:             s.RunID,
		RequirementsTotal: s.RequirementsTotal,
		CandidatesTotal:   s.CandidatesTotal,
		Created:           s.Created,
		Updated:           s.Updated,
		Skipped:           s.Skipped,
		Errors:            s.Errors,
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
