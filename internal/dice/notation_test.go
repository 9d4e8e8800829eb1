package dice_test

import (
	"errors"
	"testing"

	"github.com/fivetorches/encounter-engine/internal/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidNotation(t *testing.T) {
	tests := []struct {
		name     string
		notation string
		want     dice.RollSpec
	}{
		{
			name:     "simple",
			notation: "2d6",
			want:     dice.RollSpec{Count: 2, Sides: 6},
		},
		{
			name:     "missing count defaults to 1",
			notation: "d20",
			want:     dice.RollSpec{Count: 1, Sides: 20},
		},
		{
			name:     "positive modifier",
			notation: "2d6+3",
			want:     dice.RollSpec{Count: 2, Sides: 6, Modifier: 3},
		},
		{
			name:     "negative modifier",
			notation: "1d8-2",
			want:     dice.RollSpec{Count: 1, Sides: 8, Modifier: -2},
		},
		{
			name:     "keep highest",
			notation: "4d6kh3",
			want:     dice.RollSpec{Count: 4, Sides: 6, KeepHighest: 3},
		},
		{
			name:     "keep lowest",
			notation: "2d20kl1",
			want:     dice.RollSpec{Count: 2, Sides: 20, KeepLowest: 1},
		},
		{
			name:     "keep highest with modifier",
			notation: "4d6kh3+2",
			want:     dice.RollSpec{Count: 4, Sides: 6, KeepHighest: 3, Modifier: 2},
		},
		{
			name:     "case insensitive",
			notation: "2D6KH1",
			want:     dice.RollSpec{Count: 2, Sides: 6, KeepHighest: 1},
		},
		{
			name:     "whitespace insensitive",
			notation: " 2 d 6 + 3 ",
			want:     dice.RollSpec{Count: 2, Sides: 6, Modifier: 3},
		},
		{
			name:     "boundary count and sides",
			notation: "100d100",
			want:     dice.RollSpec{Count: 100, Sides: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := dice.Parse(tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *spec)
		})
	}
}

func TestParse_InvalidNotation(t *testing.T) {
	tests := []struct {
		name     string
		notation string
		wantErr  error
	}{
		{name: "empty", notation: "", wantErr: dice.ErrInvalidNotation},
		{name: "garbage", notation: "fireball", wantErr: dice.ErrInvalidNotation},
		{name: "missing sides", notation: "2d", wantErr: dice.ErrInvalidNotation},
		{name: "double keep", notation: "4d6kh3kl1", wantErr: dice.ErrInvalidNotation},
		{name: "keep without count", notation: "4d6kh", wantErr: dice.ErrInvalidNotation},
		{name: "bare modifier", notation: "+3", wantErr: dice.ErrInvalidNotation},
		{name: "zero count", notation: "0d6", wantErr: dice.ErrInvalidDiceCount},
		{name: "count too large", notation: "101d6", wantErr: dice.ErrInvalidDiceCount},
		{name: "zero sides", notation: "1d0", wantErr: dice.ErrInvalidDiceSides},
		{name: "sides too large", notation: "1d101", wantErr: dice.ErrInvalidDiceSides},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dice.Parse(tt.notation)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}
