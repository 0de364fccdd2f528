package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/talentgrid/matchd/internal/domain"
)

// Per-unit penalties for out-of-range inputs.
const (
	penaltyPerYearUnder  = 0.10
	penaltyPerYearOver   = 0.05
	penaltyPerRankBelow  = 0.30
	penaltyPerWeekLate   = 0.05
	rateOveragePenaltyCo = 0.5
)

// neutralScore is used when an input needed for a component is unknown.
const neutralScore = 0.5

// educationLadder is ordered low to high; rank comparison drives the
// education score. Matching is a substring scan over the degree text.
var educationLadder = []struct {
	level string
	rank  int
}{
	{"high school", 1},
	{"associate", 2},
	{"bachelor", 3},
	{"master", 4},
	{"phd", 5},
}

// ScoreExperience scores candidate experience against a [min,max] range.
// Inside the range is perfect; each year below min costs 10%, each year
// above max costs 5%. Unknown candidate experience is neutral.
func ScoreExperience(candidateYears, requiredMin, requiredMax *float64) float64 {
	if candidateYears == nil {
		return neutralScore
	}
	if requiredMin == nil && requiredMax == nil {
		return 1.0
	}

	years := *candidateYears
	minYears := 0.0
	if requiredMin != nil {
		minYears = *requiredMin
	}
	maxYears := math.Inf(1)
	if requiredMax != nil {
		maxYears = *requiredMax
	}

	switch {
	case years >= minYears && years <= maxYears:
		return 1.0
	case years < minYears:
		return math.Max(0.0, 1.0-(minYears-years)*penaltyPerYearUnder)
	default:
		return math.Max(0.0, 1.0-(years-maxYears)*penaltyPerYearOver)
	}
}

// ScoreEducation scores the candidate's best degree against the required
// level. Meeting or exceeding the level is perfect; each missing rank costs
// 30%. No requirement is a free pass; no records fail a real requirement;
// degrees with no recognizable ladder term are neutral.
func ScoreEducation(education []domain.EducationRecord, requiredLevel string) float64 {
	if requiredLevel == "" {
		return 1.0
	}

	requiredRank := 0
	normalizedRequired := strings.ToLower(requiredLevel)
	for _, e := range educationLadder {
		if e.level == normalizedRequired {
			requiredRank = e.rank
			break
		}
	}

	if len(education) == 0 {
		if requiredRank > 0 {
			return 0.0
		}
		return 1.0
	}

	maxRank := 0
	for _, record := range education {
		degree := NormalizeSkill(record.Degree)
		for _, e := range educationLadder {
			if strings.Contains(degree, e.level) && e.rank > maxRank {
				maxRank = e.rank
			}
		}
	}

	if maxRank == 0 {
		return neutralScore
	}
	if maxRank >= requiredRank {
		return 1.0
	}
	return math.Max(0.0, 1.0-float64(requiredRank-maxRank)*penaltyPerRankBelow)
}

// ScoreLocation scores geographic fit. Remote work or an unconstrained
// requirement is perfect; otherwise the tiers are same city 1.0, same state
// 0.8, same country 0.6, anywhere else 0.3 (never zero — relocation is
// always conceivable).
func ScoreLocation(candidate, required domain.Location, workMode string) float64 {
	if strings.EqualFold(strings.TrimSpace(workMode), "remote") {
		return 1.0
	}
	if required.City == "" && required.State == "" && required.Country == "" {
		return 1.0
	}

	candCity := normalizePlace(candidate.City)
	reqCity := normalizePlace(required.City)
	candState := normalizePlace(candidate.State)
	reqState := normalizePlace(required.State)
	candCountry := normalizePlace(candidate.Country)
	reqCountry := normalizePlace(required.Country)

	switch {
	case candCity != "" && candCity == reqCity:
		return 1.0
	case candState != "" && candState == reqState:
		return 0.8
	case candCountry != "" && candCountry == reqCountry:
		return 0.6
	default:
		return 0.3
	}
}

func normalizePlace(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ScoreRate scores the candidate's desired rate against the budget. At or
// under the effective max is perfect; overage is penalized proportionally,
// capped at a full penalty. Unknown rate is neutral, no budget is a free
// pass.
func ScoreRate(candidateRate, rateMin, rateMax *float64) float64 {
	if candidateRate == nil || *candidateRate <= 0 {
		return neutralScore
	}
	if (rateMin == nil || *rateMin <= 0) && (rateMax == nil || *rateMax <= 0) {
		return 1.0
	}
	if rateMax == nil || *rateMax <= 0 {
		// Only a minimum budget is set; any rate clears it.
		return 1.0
	}

	maxRate := *rateMax
	if *candidateRate <= maxRate {
		return 1.0
	}

	overage := *candidateRate - maxRate
	penalty := math.Min(1.0, (overage/maxRate)*rateOveragePenaltyCo)
	return math.Max(0.0, 1.0-penalty)
}

// ScoreAvailability scores how soon the candidate can start. Available on or
// before the start date is perfect; each week late costs 5%. A missing date
// on either side is treated as available.
func ScoreAvailability(availableOn, startDate *time.Time) float64 {
	if availableOn == nil || startDate == nil {
		return 1.0
	}
	if !availableOn.After(*startDate) {
		return 1.0
	}

	weeksLate := availableOn.Sub(*startDate).Hours() / 24 / 7
	penalty := math.Min(1.0, weeksLate*penaltyPerWeekLate)
	return math.Max(0.0, 1.0-penalty)
}

// ScoreCulture averages culture_fit_score across interview feedback records.
// Records without a rating are skipped; no usable feedback is neutral.
func ScoreCulture(feedback []domain.InterviewFeedback) float64 {
	var total float64
	var count int
	for _, f := range feedback {
		if f.CultureFitScore == nil {
			continue
		}
		total += *f.CultureFitScore
		count++
	}
	if count == 0 {
		return neutralScore
	}
	return clamp01(total / float64(count))
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
