package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/talentgrid/matchd/internal/domain"
)

func f(v float64) *float64 { return &v }

func remoteRequirement(id int64, skills ...string) domain.Requirement {
	return domain.Requirement{
		ID:             id,
		SkillsRequired: skills,
		WorkMode:       "remote",
		IsActive:       true,
	}
}

func candidateWithSkills(id int64, skills ...string) domain.Candidate {
	cand := domain.Candidate{ID: id, TotalExperienceYears: f(5), IsActive: true}
	for _, s := range skills {
		cand.Skills = append(cand.Skills, domain.Skill{Name: s})
	}
	return cand
}

func TestMatchAllCrossProduct(t *testing.T) {
	// 3 requirements x 4 candidates. With default weights and these
	// fixtures the non-skill components contribute a floor of 0.60, so a
	// 0.7 threshold admits exactly the pairs with a real skill hit.
	reqs := &mockReqs{active: []domain.Requirement{
		remoteRequirement(1, "python"),
		remoteRequirement(2, "python", "sql"),
		remoteRequirement(3, "photoshop"),
	}}
	cands := &mockCands{active: []domain.Candidate{
		candidateWithSkills(10, "python", "postgres"),
		candidateWithSkills(11, "python"),
		candidateWithSkills(12, "photoshop"),
		candidateWithSkills(13, "finger painting"),
	}}
	store := newMockMatchStore()

	svc := newTestService(reqs, cands, store)

	stats, err := svc.MatchAll(context.Background(), 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.RequirementsTotal != 3 || stats.CandidatesTotal != 4 {
		t.Errorf("totals = (%d, %d), want (3, 4)", stats.RequirementsTotal, stats.CandidatesTotal)
	}
	// Clearing pairs: req1 x {10 .95, 11 .95}, req2 x {10 .933, 11 .775},
	// req3 x {12 .95} — exactly 5 of the 12.
	if stats.Created != 5 {
		t.Errorf("Created = %d, want 5", stats.Created)
	}
	if stats.Skipped != 7 {
		t.Errorf("Skipped = %d, want 7", stats.Skipped)
	}
	if stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", stats.Errors)
	}
	if len(store.rows) != stats.Created {
		t.Errorf("persisted rows = %d, want %d", len(store.rows), stats.Created)
	}
	if stats.RunID == "" {
		t.Error("RunID must be set")
	}
}

func TestMatchAllIdempotent(t *testing.T) {
	reqs := &mockReqs{active: []domain.Requirement{remoteRequirement(1, "python")}}
	cands := &mockCands{active: []domain.Candidate{
		candidateWithSkills(10, "python"),
		candidateWithSkills(11, "python"),
	}}
	store := newMockMatchStore()

	svc := newTestService(reqs, cands, store)

	first, err := svc.MatchAll(context.Background(), 0.5)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Created != 2 || first.Updated != 0 {
		t.Fatalf("first run created/updated = %d/%d, want 2/0", first.Created, first.Updated)
	}

	second, err := svc.MatchAll(context.Background(), 0.5)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Created != 0 {
		t.Errorf("second run Created = %d, want 0", second.Created)
	}
	if second.Updated != 2 {
		t.Errorf("second run Updated = %d, want 2", second.Updated)
	}
	if len(store.rows) != 2 {
		t.Errorf("row count changed on rerun: %d, want 2", len(store.rows))
	}
}

func TestMatchAllBelowThresholdSkippedSilently(t *testing.T) {
	reqs := &mockReqs{active: []domain.Requirement{remoteRequirement(1, "cobol")}}
	cands := &mockCands{active: []domain.Candidate{candidateWithSkills(10, "photoshop")}}
	store := newMockMatchStore()

	svc := newTestService(reqs, cands, store)

	stats, err := svc.MatchAll(context.Background(), 0.99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Created != 0 || stats.Updated != 0 || stats.Errors != 0 {
		t.Errorf("stats = %+v, want no rows and no errors", stats)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if len(store.rows) != 0 {
		t.Errorf("rows = %d, want 0", len(store.rows))
	}
}

func TestMatchAllIsolatesPairFailures(t *testing.T) {
	reqs := &mockReqs{active: []domain.Requirement{remoteRequirement(1, "python")}}
	cands := &mockCands{active: []domain.Candidate{
		candidateWithSkills(10, "python"),
		candidateWithSkills(11, "python"),
		candidateWithSkills(12, "python"),
	}}
	store := newMockMatchStore()
	store.failOn[[2]int64{1, 11}] = errors.New("deadlock detected")

	svc := newTestService(reqs, cands, store)

	stats, err := svc.MatchAll(context.Background(), 0.0)
	if err != nil {
		t.Fatalf("a per-pair failure must not abort the run: %v", err)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if stats.Created != 2 {
		t.Errorf("Created = %d, want 2 (remaining pairs processed)", stats.Created)
	}
}

func TestMatchAllFatalWhenListingFails(t *testing.T) {
	svc := newTestService(
		&mockReqs{listErr: errors.New("connection refused")},
		&mockCands{},
		newMockMatchStore(),
	)

	if _, err := svc.MatchAll(context.Background(), 0.5); err == nil {
		t.Fatal("expected error before any pair is processed")
	}

	store := newMockMatchStore()
	svc = newTestService(
		&mockReqs{active: []domain.Requirement{remoteRequirement(1, "python")}},
		&mockCands{listErr: errors.New("connection refused")},
		store,
	)
	if _, err := svc.MatchAll(context.Background(), 0.5); err == nil {
		t.Fatal("expected error when candidate listing fails")
	}
	if store.upserts != 0 {
		t.Errorf("upserts = %d, want 0 (fatal precondition)", store.upserts)
	}
}

func TestMatchAllPagination(t *testing.T) {
	active := make([]domain.Candidate, 0, 7)
	for i := 0; i < 7; i++ {
		active = append(active, candidateWithSkills(int64(100+i), "python"))
	}
	reqs := &mockReqs{active: []domain.Requirement{remoteRequirement(1, "python")}}
	cands := &mockCands{active: active}
	store := newMockMatchStore()

	svc := newTestService(reqs, cands, store).WithPageSize(3)

	stats, err := svc.MatchAll(context.Background(), 0.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CandidatesTotal != 7 {
		t.Errorf("CandidatesTotal = %d, want 7", stats.CandidatesTotal)
	}
	if stats.Created != 7 {
		t.Errorf("Created = %d, want 7", stats.Created)
	}
}

func TestRecalculateRequirement(t *testing.T) {
	req := remoteRequirement(1, "python")
	reqs := &mockReqs{byID: map[int64]domain.Requirement{1: req}}
	cands := &mockCands{active: []domain.Candidate{
		candidateWithSkills(10, "python"),
		candidateWithSkills(11, "photoshop"),
	}}
	store := newMockMatchStore()

	svc := newTestService(reqs, cands, store)

	stats, err := svc.RecalculateRequirement(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Recalculation persists every pair, threshold-free.
	if stats.Created != 2 {
		t.Errorf("Created = %d, want 2", stats.Created)
	}

	stats, err = svc.RecalculateRequirement(context.Background(), 1)
	if err != nil {
		t.Fatalf("second recalculation: %v", err)
	}
	if stats.Created != 0 || stats.Updated != 2 {
		t.Errorf("second run created/updated = %d/%d, want 0/2", stats.Created, stats.Updated)
	}
}

func TestRecalculateUnknownRequirement(t *testing.T) {
	svc := newTestService(&mockReqs{}, &mockCands{}, newMockMatchStore())

	_, err := svc.RecalculateRequirement(context.Background(), 404)
	if !errors.Is(err, domain.ErrRequirementNotFound) {
		t.Fatalf("want ErrRequirementNotFound, got %v", err)
	}
}

func TestOverride(t *testing.T) {
	reqs := &mockReqs{active: []domain.Requirement{remoteRequirement(1, "python")}}
	cands := &mockCands{active: []domain.Candidate{candidateWithSkills(10, "python")}}
	store := newMockMatchStore()

	svc := newTestService(reqs, cands, store)

	if _, err := svc.MatchAll(context.Background(), 0.0); err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	before := store.rows[[2]int64{1, 10}]

	got, err := svc.Override(context.Background(), 1, 10, 0.92, "manager override")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OverallScore != 0.92 {
		t.Errorf("OverallScore = %v, want 0.92", got.OverallScore)
	}
	if got.MatchedBy != domain.MatchedByManualOverride {
		t.Errorf("MatchedBy = %q, want manual_override", got.MatchedBy)
	}
	if got.Notes != "manager override" {
		t.Errorf("Notes = %q, want preserved", got.Notes)
	}
	if got.SkillScore != before.SkillScore {
		t.Errorf("SkillScore changed on override: %v -> %v", before.SkillScore, got.SkillScore)
	}
}

func TestOverrideUnknownPair(t *testing.T) {
	svc := newTestService(&mockReqs{}, &mockCands{}, newMockMatchStore())

	_, err := svc.Override(context.Background(), 1, 10, 0.9, "")
	if !errors.Is(err, domain.ErrMatchNotFound) {
		t.Fatalf("want ErrMatchNotFound, got %v", err)
	}
}

func TestOverrideRejectsOutOfRangeScore(t *testing.T) {
	store := newMockMatchStore()
	store.rows[[2]int64{1, 10}] = domain.MatchResult{RequirementID: 1, CandidateID: 10}

	svc := newTestService(&mockReqs{}, &mockCands{}, store)

	for _, score := range []float64{-0.1, 1.01} {
		if _, err := svc.Override(context.Background(), 1, 10, score, ""); !errors.Is(err, domain.ErrInvalidScore) {
			t.Errorf("score %v: want ErrInvalidScore, got %v", score, err)
		}
	}
}
