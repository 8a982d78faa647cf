package scheduling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func mustTS(s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func tb(start, end string) domain.TimeBlock {
	return domain.TimeBlock{
		Start: mustTS(start),
		End:   mustTS(end),
	}
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		aS, aE int
		bS, bE int
		want   bool
	}{
		{"partial overlap", 540, 600, 570, 630, true},
		{"identical ranges", 540, 600, 540, 600, true},
		{"inner containment", 540, 720, 600, 660, true},
		{"touching endpoints", 540, 600, 600, 660, false},
		{"touching endpoints reversed", 600, 660, 540, 600, false},
		{"disjoint", 540, 600, 660, 720, false},
		{"one minute overlap", 540, 601, 600, 660, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangesOverlap(tt.aS, tt.aE, tt.bS, tt.bE))
		})
	}
}

func TestRangesOverlapSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		aS := rng.Intn(1380)
		aE := aS + 1 + rng.Intn(1440-aS-1)
		bS := rng.Intn(1380)
		bE := bS + 1 + rng.Intn(1440-bS-1)

		require.Equal(t,
			RangesOverlap(aS, aE, bS, bE),
			RangesOverlap(bS, bE, aS, aE),
			"overlap must be symmetric: [%d,%d) vs [%d,%d)", aS, aE, bS, bE,
		)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(540, 1080, 600, 660))
	assert.True(t, Contains(540, 1080, 540, 1080), "range contains itself")
	assert.False(t, Contains(540, 1080, 500, 660))
	assert.False(t, Contains(540, 1080, 600, 1100))
}

func TestContainsTransitivity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// A ⊇ B и B ⊇ C влечёт A ⊇ C
	for i := 0; i < 1000; i++ {
		aS := rng.Intn(600)
		aE := aS + 60 + rng.Intn(600)
		bS := aS + rng.Intn(30)
		bE := aE - rng.Intn(30)
		cS := bS + rng.Intn(15)
		cE := bE - rng.Intn(15)
		if cS >= cE || bS >= bE {
			continue
		}

		require.True(t, Contains(aS, aE, bS, bE))
		require.True(t, Contains(bS, bE, cS, cE))
		require.True(t, Contains(aS, aE, cS, cE),
			"containment must be transitive: [%d,%d] ⊇ [%d,%d] ⊇ [%d,%d]", aS, aE, bS, bE, cS, cE)
	}
}

func TestUnionRange(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, _, ok := UnionRange(nil)
		assert.False(t, ok)
	})

	t.Run("single block", func(t *testing.T) {
		min, max, ok := UnionRange([]domain.TimeBlock{tb("09:00", "18:00")})
		require.True(t, ok)
		assert.Equal(t, 540, min)
		assert.Equal(t, 1080, max)
	})

	t.Run("split day collapses to envelope", func(t *testing.T) {
		min, max, ok := UnionRange([]domain.TimeBlock{
			tb("09:00", "13:00"),
			tb("14:00", "18:00"),
		})
		require.True(t, ok)
		assert.Equal(t, 540, min)
		assert.Equal(t, 1080, max, "lunch gap must not narrow the envelope")
	})

	t.Run("unordered blocks", func(t *testing.T) {
		min, max, ok := UnionRange([]domain.TimeBlock{
			tb("14:00", "18:00"),
			tb("09:00", "13:00"),
		})
		require.True(t, ok)
		assert.Equal(t, 540, min)
		assert.Equal(t, 1080, max)
	})
}
