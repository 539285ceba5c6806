package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultParams_Validate(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	require.Equal(t, uint64(10_000_000_000), p.MaxWithdrawal)
}

func TestParams_ValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero min stake", func(p *Params) { p.MinStake = 0 }},
		{"zero stake cap", func(p *Params) { p.MaxStakeBps = 0 }},
		{"stake cap above 100%", func(p *Params) { p.MaxStakeBps = 10_001 }},
		{"edge of 100%", func(p *Params) { p.HouseEdgeBps = 10_000 }},
		{"no reveal window", func(p *Params) { p.RevealWindowBlocks = 0 }},
		{"no withdrawals", func(p *Params) { p.MaxWithdrawal = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("Over")
	require.NoError(t, err)
	require.Equal(t, DirectionOver, d)

	d, err = ParseDirection(" under ")
	require.NoError(t, err)
	require.Equal(t, DirectionUnder, d)

	_, err = ParseDirection("sideways")
	require.ErrorIs(t, err, ErrInvalidGuess)
}
