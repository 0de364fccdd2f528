package batch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
)

// --- Mocks ---

type mockReqs struct {
	byID    map[int64]domain.Requirement
	active  []domain.Requirement
	listErr error
}

func (m *mockReqs) Get(_ context.Context, id int64) (domain.Requirement, error) {
	req, ok := m.byID[id]
	if !ok {
		return domain.Requirement{}, domain.ErrRequirementNotFound
	}
	return req, nil
}

func (m *mockReqs) ListActive(_ context.Context) ([]domain.Requirement, error) {
	return m.active, m.listErr
}

type mockCands struct {
	active  []domain.Candidate
	listErr error
}

func (m *mockCands) ListActive(_ context.Context, offset, limit int) ([]domain.Candidate, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if offset >= len(m.active) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.active) {
		end = len(m.active)
	}
	return m.active[offset:end], nil
}

type mockFeedback struct {
	byCandidate map[int64][]domain.InterviewFeedback
}

func (m *mockFeedback) ListForCandidate(_ context.Context, candidateID int64) ([]domain.InterviewFeedback, error) {
	return m.byCandidate[candidateID], nil
}

// mockMatchStore is an in-memory MatchWriter with per-pair failure injection.
type mockMatchStore struct {
	rows    map[[2]int64]domain.MatchResult
	failOn  map[[2]int64]error
	upserts int
}

func newMockMatchStore() *mockMatchStore {
	return &mockMatchStore{
		rows:   make(map[[2]int64]domain.MatchResult),
		failOn: make(map[[2]int64]error),
	}
}

func (m *mockMatchStore) Upsert(_ context.Context, result domain.MatchResult) (bool, error) {
	m.upserts++
	key := [2]int64{result.RequirementID, result.CandidateID}
	if err := m.failOn[key]; err != nil {
		return false, err
	}
	_, exists := m.rows[key]
	m.rows[key] = result
	return !exists, nil
}

func (m *mockMatchStore) Override(
	_ context.Context, requirementID, candidateID int64, score float64, notes string,
) (domain.MatchResult, error) {
	key := [2]int64{requirementID, candidateID}
	row, ok := m.rows[key]
	if !ok {
		return domain.MatchResult{}, domain.ErrMatchNotFound
	}
	row.OverallScore = score
	row.MatchedBy = domain.MatchedByManualOverride
	row.Notes = notes
	row.MatchedAt = time.Now().UTC()
	m.rows[key] = row
	return row, nil
}

func testWeights() *weights.Store {
	s, err := weights.NewStore(weights.Default())
	if err != nil {
		panic(err)
	}
	return s
}

func newTestService(reqs *mockReqs, cands *mockCands, store *mockMatchStore) *Service {
	return New(reqs, cands, &mockFeedback{}, store, testWeights(), zap.NewNop())
}
