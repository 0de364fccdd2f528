package weights

import (
	"errors"
	"testing"

	"github.com/talentgrid/matchd/internal/domain"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default vector must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vector  Vector
		wantErr bool
	}{
		{
			name:   "default",
			vector: Default(),
		},
		{
			name: "culture weighted in",
			vector: Vector{
				Skill: 0.30, Experience: 0.25, Education: 0.15,
				Location: 0.10, Rate: 0.10, Availability: 0.05, Culture: 0.05,
			},
		},
		{
			name: "sum within tolerance",
			vector: Vector{
				Skill: 0.35, Experience: 0.25, Education: 0.15,
				Location: 0.10, Rate: 0.10, Availability: 0.055,
			},
		},
		{
			name: "sum too low",
			vector: Vector{
				Skill: 0.35, Experience: 0.25, Education: 0.15,
			},
			wantErr: true,
		},
		{
			name: "sum too high",
			vector: Vector{
				Skill: 0.5, Experience: 0.5, Education: 0.5,
			},
			wantErr: true,
		},
		{
			name: "negative component",
			vector: Vector{
				Skill: 1.05, Experience: -0.05, Education: 0,
				Location: 0, Rate: 0, Availability: 0, Culture: 0,
			},
			wantErr: true,
		},
		{
			name: "component above one",
			vector: Vector{
				Skill: 1.1, Experience: 0, Education: 0,
				Location: 0, Rate: 0, Availability: 0, Culture: 0,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vector.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, domain.ErrInvalidWeights) {
					t.Errorf("error must wrap ErrInvalidWeights, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	if got, again := Default().Fingerprint(), Default().Fingerprint(); got != again {
		t.Errorf("fingerprint unstable for equal vectors: %s vs %s", got, again)
	}

	other := Vector{
		Skill: 0.30, Experience: 0.25, Education: 0.15,
		Location: 0.10, Rate: 0.10, Availability: 0.05, Culture: 0.05,
	}
	if Default().Fingerprint() == other.Fingerprint() {
		t.Error("different vectors share a fingerprint")
	}
}

func TestStoreRejectsInvalidSwap(t *testing.T) {
	s, err := NewStore(Default())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	bad := Vector{Skill: 0.9}
	if err := s.Set(bad); err == nil {
		t.Fatal("expected Set to reject bad vector")
	}

	if got := s.Current(); got != Default() {
		t.Errorf("prior vector must stay active after rejected swap, got %+v", got)
	}
}

func TestStoreSwap(t *testing.T) {
	s, err := NewStore(Default())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	next := Vector{
		Skill: 0.30, Experience: 0.25, Education: 0.15,
		Location: 0.10, Rate: 0.10, Availability: 0.05, Culture: 0.05,
	}
	if err := s.Set(next); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Snapshot taken before the swap is unaffected by it.
	snapshot := s.Current()
	later := Default()
	if err := s.Set(later); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if snapshot != next {
		t.Errorf("snapshot changed after swap: %+v", snapshot)
	}
	if got := s.Current(); got != later {
		t.Errorf("Current() = %+v, want %+v", got, later)
	}
}

func TestNewStoreRejectsInvalidSeed(t *testing.T) {
	if _, err := NewStore(Vector{Skill: 0.2}); err == nil {
		t.Fatal("expected error for invalid seed vector")
	}
}
