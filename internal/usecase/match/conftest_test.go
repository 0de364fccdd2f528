package match

import (
	"context"

	"go.uber.org/zap"

	"github.com/talentgrid/matchd/internal/domain"
	"github.com/talentgrid/matchd/internal/domain/weights"
)

// --- Mocks ---

type mockReqs struct {
	byID       map[int64]domain.Requirement
	active     []domain.Requirement
	getErr     error
	listErr    error
	listCalled bool
}

func (m *mockReqs) Get(_ context.Context, id int64) (domain.Requirement, error) {
	if m.getErr != nil {
		return domain.Requirement{}, m.getErr
	}
	req, ok := m.byID[id]
	if !ok {
		return domain.Requirement{}, domain.ErrRequirementNotFound
	}
	return req, nil
}

func (m *mockReqs) ListActive(_ context.Context) ([]domain.Requirement, error) {
	m.listCalled = true
	return m.active, m.listErr
}

type mockCands struct {
	byID    map[int64]domain.Candidate
	active  []domain.Candidate
	getErr  error
	listErr error
}

func (m *mockCands) Get(_ context.Context, id int64) (domain.Candidate, error) {
	if m.getErr != nil {
		return domain.Candidate{}, m.getErr
	}
	cand, ok := m.byID[id]
	if !ok {
		return domain.Candidate{}, domain.ErrCandidateNotFound
	}
	return cand, nil
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
	err         error
}

func (m *mockFeedback) ListForCandidate(_ context.Context, candidateID int64) ([]domain.InterviewFeedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byCandidate[candidateID], nil
}

type mockMatches struct {
	byPair  map[[2]int64]domain.MatchResult
	listed  []domain.MatchResult
	total   int
	listErr error
}

func (m *mockMatches) Get(_ context.Context, requirementID, candidateID int64) (domain.MatchResult, error) {
	result, ok := m.byPair[[2]int64{requirementID, candidateID}]
	if !ok {
		return domain.MatchResult{}, domain.ErrMatchNotFound
	}
	return result, nil
}

func (m *mockMatches) ListForRequirement(_ context.Context, _ int64, _, _ int) ([]domain.MatchResult, int, error) {
	return m.listed, m.total, m.listErr
}

type mockCache struct {
	entries map[string][]domain.RankedMatch
	gets    int
	hits    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]domain.RankedMatch)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]domain.RankedMatch, bool) {
	m.gets++
	matches, ok := m.entries[key]
	if ok {
		m.hits++
	}
	return matches, ok
}

func (m *mockCache) Set(_ context.Context, key string, matches []domain.RankedMatch) {
	m.sets++
	m.entries[key] = matches
}

func testWeights() *weights.Store {
	s, err := weights.NewStore(weights.Default())
	if err != nil {
		panic(err)
	}
	return s
}

func newTestService(reqs *mockReqs, cands *mockCands, cache ResultCache) *Service {
	return New(
		reqs, cands,
		&mockFeedback{},
		&mockMatches{},
		testWeights(),
		cache,
		zap.NewNop(),
	)
}
