package dice_test

import (
	"fmt"
	"testing"

	"github.com/KirkDiggler/battlefield-terrain/internal/dice"
	mockdice "github.com/KirkDiggler/battlefield-terrain/internal/dice/mock"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
	"github.com/KirkDiggler/battlefield-terrain/internal/rolllog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCup_RollDice(t *testing.T) {
	tests := []struct {
		name       string
		setupRolls []int
		sides      int
		count      int
		label      string
		wantRolls  []int
		wantLog    []string
		wantCode   terrerr.Code
	}{
		{
			name:       "single labelled d6",
			setupRolls: []int{3},
			sides:      6,
			count:      1,
			label:      "D6+4 Terrain Pieces",
			wantRolls:  []int{3},
			wantLog:    []string{"D6+4 Terrain Pieces [3]"},
		},
		{
			name:       "2d6 comma joined",
			setupRolls: []int{4, 5},
			sides:      6,
			count:      2,
			label:      "2d6 on the Random Terrain Table",
			wantRolls:  []int{4, 5},
			wantLog:    []string{"2d6 on the Random Terrain Table [4, 5]"},
		},
		{
			name:       "unlabelled roll leaves log alone",
			setupRolls: []int{2},
			sides:      3,
			count:      1,
			wantRolls:  []int{2},
			wantLog:    []string{},
		},
		{
			name:     "unsupported die",
			sides:    7,
			count:    1,
			wantCode: terrerr.CodeInvalidArgument,
			wantLog:  []string{},
		},
		{
			name:     "zero dice",
			sides:    6,
			count:    0,
			wantCode: terrerr.CodeInvalidArgument,
			wantLog:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.setupRolls)
			log := rolllog.New()
			cup := dice.NewCup(roller, log)

			rolls, err := cup.RollDice(tt.sides, tt.count, tt.label)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, terrerr.GetCode(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRolls, rolls)
			}
			assert.Equal(t, tt.wantLog, log.Entries())
		})
	}
}

func TestCup_ResultIndependentOfLabel(t *testing.T) {
	labelled := dice.NewCup(dice.NewRandomRoller(5), nil)
	silent := dice.NewCup(dice.NewRandomRoller(5), nil)

	for i := 0; i < 100; i++ {
		a, err := labelled.RollDie(6, "trace")
		require.NoError(t, err)
		b, err := silent.RollDie(6, "")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
	assert.Equal(t, 100, labelled.Log().Len())
	assert.Equal(t, 0, silent.Log().Len())
}

func TestCup_PropagatesRollerErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	roller := mockdice.NewMockRoller(ctrl)
	roller.EXPECT().Roll(6).Return(0, fmt.Errorf("entropy exhausted"))

	cup := dice.NewCup(roller, nil)
	_, err := cup.RollDie(6, "D6")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
	assert.Equal(t, 0, cup.Log().Len())
}

func TestCup_RejectsOutOfRangeRoller(t *testing.T) {
	ctrl := gomock.NewController(t)
	roller := mockdice.NewMockRoller(ctrl)
	roller.EXPECT().Roll(3).Return(4, nil)

	_, err := dice.NewCup(roller, nil).RollDie(3, "")

	assert.True(t, terrerr.IsInvariantViolation(err))
}

func TestCup_RollNotation(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{3})
	cup := dice.NewCup(roller, nil)

	total, err := cup.RollNotation(dice.Notation{Count: 1, Sides: 6, Bonus: 4}, "D6+4 Terrain Pieces")

	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, []string{"D6+4 Terrain Pieces [3]"}, cup.Log().Entries())
}
