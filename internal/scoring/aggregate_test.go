package scoring

import (
	"reflect"
	"testing"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
)

func TestAggregateRemotePythonRequirement(t *testing.T) {
	req := domain.Requirement{
		ID:             10,
		Title:          "Backend Engineer",
		SkillsRequired: []string{"python", "sql"},
		ExperienceMin:  f(5),
		WorkMode:       "remote",
	}
	cand := domain.Candidate{
		ID:                   20,
		FullName:             "Dana Reyes",
		Skills:               []domain.Skill{{Name: "python"}, {Name: "postgresql"}},
		TotalExperienceYears: f(7),
	}

	got := Aggregate(req, cand, nil, weights.Default())

	// skill mean(1.0 exact, 0.9 synonym) = 0.95; experience 1.0;
	// education/location/availability free passes; rate and culture neutral.
	if got.SkillScore != 0.95 {
		t.Errorf("SkillScore = %v, want 0.95", got.SkillScore)
	}
	if got.ExperienceScore != 1.0 {
		t.Errorf("ExperienceScore = %v, want 1.0", got.ExperienceScore)
	}
	if got.LocationScore != 1.0 {
		t.Errorf("LocationScore = %v, want 1.0", got.LocationScore)
	}
	if got.RateScore != 0.5 || got.CultureScore != 0.5 {
		t.Errorf("neutral defaults: rate=%v culture=%v, want 0.5 each", got.RateScore, got.CultureScore)
	}

	// .35*.95 + .25*1 + .15*1 + .10*1 + .10*.5 + .05*1 + 0*.5 = 0.9325
	if got.OverallScore != 0.933 {
		t.Errorf("OverallScore = %v, want 0.933", got.OverallScore)
	}

	if len(got.MissingSkills) != 0 {
		t.Errorf("MissingSkills = %v, want none", got.MissingSkills)
	}
	if !reflect.DeepEqual(got.StandoutQualities, []string{"postgresql"}) {
		t.Errorf("StandoutQualities = %v, want [postgresql]", got.StandoutQualities)
	}
	if got.Status != domain.MatchPending || got.MatchedBy != domain.MatchedBySystem {
		t.Errorf("provenance = (%v, %v), want (pending, system)", got.Status, got.MatchedBy)
	}
	if !got.MatchedAt.IsZero() {
		t.Errorf("MatchedAt must be zero until persisted, got %v", got.MatchedAt)
	}
}

func TestAggregateDeterminism(t *testing.T) {
	req := domain.Requirement{
		ID:             1,
		SkillsRequired: []string{"go", "kubernetes", "terraform"},
		ExperienceMin:  f(3),
		ExperienceMax:  f(9),
		EducationLevel: "bachelor",
		Location:       domain.Location{City: "Austin", State: "TX", Country: "USA"},
		RateMin:        f(60),
		RateMax:        f(95),
		StartDate:      d("2026-03-01"),
	}
	cand := domain.Candidate{
		ID:                   2,
		Skills:               []domain.Skill{{Name: "golang"}, {Name: "k8s"}, {Name: "aws"}},
		TotalExperienceYears: f(6),
		Education:            []domain.EducationRecord{{Degree: "Bachelor of Science"}},
		Location:             domain.Location{City: "Dallas", State: "TX", Country: "USA"},
		DesiredRate:          f(110),
		AvailabilityDate:     d("2026-03-20"),
	}
	feedback := []domain.InterviewFeedback{{CandidateID: 2, CultureFitScore: f(0.82)}}
	w := weights.Default()

	first := Aggregate(req, cand, feedback, w)
	for i := 0; i < 10; i++ {
		if got := Aggregate(req, cand, feedback, w); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\ngot:  %+v\nwant: %+v", i, got, first)
		}
	}
}

func TestAggregateScoresWithinUnitInterval(t *testing.T) {
	reqs := []domain.Requirement{
		{},
		{SkillsRequired: []string{"cobol", "fortran"}, ExperienceMin: f(20), EducationLevel: "phd",
			Location: domain.Location{City: "Oslo", Country: "Norway"}, RateMax: f(10), StartDate: d("2026-01-01")},
	}
	cands := []domain.Candidate{
		{},
		{Skills: []domain.Skill{{Name: "finger painting"}}, TotalExperienceYears: f(0.5),
			DesiredRate: f(900), AvailabilityDate: d("2029-01-01")},
	}

	for _, req := range reqs {
		for _, cand := range cands {
			got := Aggregate(req, cand, nil, weights.Default())
			scores := []float64{
				got.OverallScore, got.SkillScore, got.ExperienceScore, got.EducationScore,
				got.LocationScore, got.RateScore, got.AvailabilityScore, got.CultureScore,
			}
			for _, s := range scores {
				if s < 0.0 || s > 1.0 {
					t.Errorf("score %v out of [0,1] for req=%+v cand=%+v", s, req, cand)
				}
			}
		}
	}
}

func TestRound3(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0.9325, 0.933},
		{0.12349, 0.123},
		{1.0, 1.0},
		{0.0005, 0.001},
	}
	for _, tt := range tests {
		if got := Round3(tt.in); got != tt.want {
			t.Errorf("Round3(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
