package scoring

import (
	"math"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
)

// Aggregate computes all seven component scores for the pair and folds them
// into an overall score under the given weight snapshot. Pure with respect
// to its inputs; full precision is used internally and every stored number
// is rounded to 3 decimals. MatchedAt is left zero — the persistence layer
// stamps it on write.
func Aggregate(
	req domain.Requirement,
	cand domain.Candidate,
	feedback []domain.InterviewFeedback,
	w weights.Vector,
) domain.MatchResult {
	skillScore, missing, standout := ScoreSkills(req.SkillsRequired, cand.Skills)
	experienceScore := ScoreExperience(cand.TotalExperienceYears, req.ExperienceMin, req.ExperienceMax)
	educationScore := ScoreEducation(cand.Education, req.EducationLevel)
	locationScore := ScoreLocation(cand.Location, req.Location, req.WorkMode)
	rateScore := ScoreRate(cand.DesiredRate, req.RateMin, req.RateMax)
	availabilityScore := ScoreAvailability(cand.AvailabilityDate, req.StartDate)
	cultureScore := ScoreCulture(feedback)

	overall := w.Skill*skillScore +
		w.Experience*experienceScore +
		w.Education*educationScore +
		w.Location*locationScore +
		w.Rate*rateScore +
		w.Availability*availabilityScore +
		w.Culture*cultureScore

	return domain.MatchResult{
		RequirementID:     req.ID,
		CandidateID:       cand.ID,
		OverallScore:      Round3(overall),
		SkillScore:        Round3(skillScore),
		ExperienceScore:   Round3(experienceScore),
		EducationScore:    Round3(educationScore),
		LocationScore:     Round3(locationScore),
		RateScore:         Round3(rateScore),
		AvailabilityScore: Round3(availabilityScore),
		CultureScore:      Round3(cultureScore),
		MissingSkills:     missing,
		StandoutQualities: standout,
		ScoreBreakdown: map[string]float64{
			"skill":        Round3(skillScore),
			"experience":   Round3(experienceScore),
			"education":    Round3(educationScore),
			"location":     Round3(locationScore),
			"rate":         Round3(rateScore),
			"availability": Round3(availabilityScore),
			"culture":      Round3(cultureScore),
		},
		Status:    domain.MatchPending,
		MatchedBy: domain.MatchedBySystem,
	}
}

// Round3 rounds to 3 decimal places, the storage precision for scores.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
