package fees

import (
	"testing"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
)

func testSchedule() Schedule {
	return Schedule{
		StandardAmount:     60_000_000,
		TinyAmount:         18_000_000,
		StandardRealAmount: 30_000_000,
		TinyRealAmount:     8_000_000,
		TiniestRealAmount:  3_000_000,
		ClaimAmount:        30_000_000,
		ForwardAmount:      1,
		TiniestTokenSlug:   "ton-eqcxe6mutq",
	}
}

func TestForTransfer(t *testing.T) {
	s := testSchedule()

	tests := []struct {
		name         string
		token        entities.Token
		willClaim    bool
		wantAttached uint64
		wantReal     uint64
	}{
		{
			name:         "standard token",
			token:        entities.Token{Slug: "ton-something"},
			wantAttached: 60_000_000,
			wantReal:     30_000_000,
		},
		{
			name:         "tiny token",
			token:        entities.Token{Slug: "ton-other", IsTiny: true},
			wantAttached: 18_000_000,
			wantReal:     8_000_000,
		},
		{
			name:         "tiniest token",
			token:        entities.Token{Slug: "ton-eqcxe6mutq", IsTiny: true},
			wantAttached: 18_000_000,
			wantReal:     3_000_000,
		},
		{
			name:         "tiniest slug without tiny flag stays standard",
			token:        entities.Token{Slug: "ton-eqcxe6mutq"},
			wantAttached: 60_000_000,
			wantReal:     30_000_000,
		},
		{
			name:         "standard token with claim",
			token:        entities.Token{Slug: "ton-something"},
			willClaim:    true,
			wantAttached: 90_000_000,
			wantReal:     60_000_000,
		},
		{
			name:         "tiny token with claim",
			token:        entities.Token{Slug: "ton-other", IsTiny: true},
			willClaim:    true,
			wantAttached: 48_000_000,
			wantReal:     38_000_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ForTransfer(&tt.token, tt.willClaim)

			if got.Attached.Uint64() != tt.wantAttached {
				t.Errorf("attached = %d, want %d", got.Attached.Uint64(), tt.wantAttached)
			}
			if got.Real.Uint64() != tt.wantReal {
				t.Errorf("real = %d, want %d", got.Real.Uint64(), tt.wantReal)
			}
			if got.Attached.Cmp(got.Real) < 0 {
				t.Errorf("attached %s < real %s", got.Attached, got.Real)
			}
		})
	}
}

func TestForTransfer_Pure(t *testing.T) {
	s := testSchedule()
	token := entities.Token{Slug: "ton-something", IsTiny: true}

	first := s.ForTransfer(&token, true)
	second := s.ForTransfer(&token, true)

	if first.Attached.Cmp(second.Attached) != 0 || first.Real.Cmp(second.Real) != 0 {
		t.Errorf("repeated calls disagree: %+v vs %+v", first, second)
	}

	// Results must be independent copies
	first.Attached.SetUint64(0)
	third := s.ForTransfer(&token, true)
	if third.Attached.Uint64() == 0 {
		t.Error("mutating a result affected a later call")
	}
}

func TestDefaultForwardAmount(t *testing.T) {
	s := testSchedule()
	if got := s.DefaultForwardAmount().Uint64(); got != 1 {
		t.Errorf("forward amount = %d, want 1", got)
	}
}
