package matchcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/talentgrid/matchd/internal/db"
	"github.com/talentgrid/matchd/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn func(ctx context.Context, key string) error

	dels []string
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	m.dels = append(m.dels, key)
	if m.delFn != nil {
		return m.delFn(context.Background(), key)
	}
	return nil
}

func newTestCache(ms *mockStore) *Cache {
	return New(ms, time.Minute, zap.NewNop())
}

func TestGetMiss(t *testing.T) {
	cache := newTestCache(&mockStore{})

	if _, ok := cache.Get(context.Background(), "matches:requirement:1:50:0.500"); ok {
		t.Error("expected a miss on an empty store")
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	var storedKey string
	var stored []byte
	var storedTTL time.Duration
	ms := &mockStore{
		setFn: func(_ context.Context, key string, value []byte, ttl time.Duration) error {
			storedKey, stored, storedTTL = key, value, ttl
			return nil
		},
	}
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key == storedKey {
			return stored, nil
		}
		return nil, db.ErrKeyNotFound
	}
	cache := newTestCache(ms)

	want := []domain.RankedMatch{{
		RequirementID: 1,
		CandidateID:   10,
		CandidateName: "Ada",
		Result:        domain.MatchResult{RequirementID: 1, CandidateID: 10, OverallScore: 0.933},
	}}
	cache.Set(context.Background(), "matches:requirement:1:50:0.500", want)

	if storedTTL != time.Minute {
		t.Errorf("ttl = %v, want 1m", storedTTL)
	}

	got, ok := cache.Get(context.Background(), "matches:requirement:1:50:0.500")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if len(got) != 1 || got[0].Result.OverallScore != 0.933 || got[0].CandidateName != "Ada" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestGetBackendFailureIsAMiss(t *testing.T) {
	ms := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return nil, errors.New("connection reset")
		},
	}
	cache := newTestCache(ms)

	if _, ok := cache.Get(context.Background(), "k"); ok {
		t.Error("a backend failure must degrade to a miss")
	}
}

func TestGetDropsCorruptEntry(t *testing.T) {
	ms := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("{not json"), nil
		},
	}
	cache := newTestCache(ms)

	if _, ok := cache.Get(context.Background(), "k"); ok {
		t.Fatal("corrupt entry must be a miss")
	}
	if len(ms.dels) != 1 || ms.dels[0] != "k" {
		t.Errorf("corrupt entry should be dropped, dels = %v", ms.dels)
	}
}

func TestSetBackendFailureIsSwallowed(t *testing.T) {
	ms := &mockStore{
		setFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
			return errors.New("readonly replica")
		},
	}
	cache := newTestCache(ms)

	// Must not panic or surface the error.
	cache.Set(context.Background(), "k", []domain.RankedMatch{})
}

func TestNewDefaultsTTL(t *testing.T) {
	var storedTTL time.Duration
	ms := &mockStore{
		setFn: func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
			storedTTL = ttl
			return nil
		},
	}
	cache := New(ms, 0, zap.NewNop())

	cache.Set(context.Background(), "k", nil)
	if storedTTL != DefaultTTL {
		t.Errorf("ttl = %v, want default %v", storedTTL, DefaultTTL)
	}
}
