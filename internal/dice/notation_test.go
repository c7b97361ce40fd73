package dice_test

import (
	"testing"

	"github.com/KirkDiggler/battlefield-terrain/internal/dice"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotation(t *testing.T) {
	tests := []struct {
		expr    string
		want    dice.Notation
		wantErr bool
	}{
		{expr: "d6+4", want: dice.Notation{Count: 1, Sides: 6, Bonus: 4}},
		{expr: "2d6", want: dice.Notation{Count: 2, Sides: 6}},
		{expr: "D3", want: dice.Notation{Count: 1, Sides: 3}},
		{expr: "3d6-2", want: dice.Notation{Count: 3, Sides: 6, Bonus: -2}},
		{expr: "", wantErr: true},
		{expr: "6", wantErr: true},
		{expr: "0d6", wantErr: true},
		{expr: "1d5", wantErr: true},
		{expr: "xd6", wantErr: true},
		{expr: "1d6+x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := dice.ParseNotation(tt.expr)
			if tt.wantErr {
				assert.True(t, terrerr.IsInvalidArgument(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotation_Bounds(t *testing.T) {
	n := dice.Notation{Count: 1, Sides: 6, Bonus: 4}
	assert.Equal(t, 5, n.Min())
	assert.Equal(t, 10, n.Max())
	assert.Equal(t, "D6+4", n.String())
	assert.Equal(t, "2D6", dice.Notation{Count: 2, Sides: 6}.String())
	assert.Equal(t, "D3-1", dice.Notation{Count: 1, Sides: 3, Bonus: -1}.String())
}
