package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/battlefield-terrain/internal/engine"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

func TestOffsetSumIndex_TopLevelTable(t *testing.T) {
	// 2d6 against seven kinds: sums run 2..12 and everything past the
	// seventh slot lands on the last entry
	expected := map[int]int{
		2:  0,
		3:  1,
		4:  2,
		5:  3,
		6:  4,
		7:  5,
		8:  6,
		9:  6,
		10: 6,
		11: 6,
		12: 6,
	}

	for sum := 2; sum <= 12; sum++ {
		index, err := engine.OffsetSumIndex(sum, 2, 7)
		require.NoError(t, err, "sum %d", sum)
		assert.Equal(t, expected[sum], index, "sum %d", sum)
	}
}

func TestOffsetSumIndex_ResizedTable(t *testing.T) {
	index, err := engine.OffsetSumIndex(12, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, index)

	index, err = engine.OffsetSumIndex(12, 2, 11)
	require.NoError(t, err)
	assert.Equal(t, 10, index)
}

func TestResolverIndex_Errors(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (int, error)
	}{
		{
			name: "direct on empty table",
			fn:   func() (int, error) { return engine.DirectIndex(1, 0) },
		},
		{
			name: "direct past the end",
			fn:   func() (int, error) { return engine.DirectIndex(6, 5) },
		},
		{
			name: "direct below the start",
			fn:   func() (int, error) { return engine.DirectIndex(0, 6) },
		},
		{
			name: "offset sum on empty table",
			fn:   func() (int, error) { return engine.OffsetSumIndex(7, 2, 0) },
		},
		{
			name: "offset sum below the minimum",
			fn:   func() (int, error) { return engine.OffsetSumIndex(1, 2, 7) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.True(t, terrerr.IsInvariantViolation(err))
		})
	}
}

func TestDirectIndex(t *testing.T) {
	for roll := 1; roll <= 6; roll++ {
		index, err := engine.DirectIndex(roll, 6)
		require.NoError(t, err)
		assert.Equal(t, roll-1, index)
	}
}
