// Package rules holds the pure admission checks applied before a bet is
// accepted. Nothing here reads or writes state.
package rules

import (
	sdkmath "cosmossdk.io/math"

	"onchaindice/internal/types"
)

const (
	// RollSpace is the number of equally likely roll values, 0 through 99.
	RollSpace = 100
)

// ValidateGuess checks that threshold lies strictly inside (0, 100) and that
// the chosen side of it leaves at least one winning roll.
func ValidateGuess(threshold uint32, dir types.Direction) error {
	if !dir.Valid() {
		return types.ErrInvalidGuess.Wrapf("unknown direction %q", dir)
	}
	if threshold == 0 || threshold >= RollSpace {
		return types.ErrInvalidGuess.Wrapf("threshold %d outside (0, %d)", threshold, RollSpace)
	}
	// No roll exceeds 99.
	if dir == types.DirectionOver && threshold == RollSpace-1 {
		return types.ErrInvalidGuess.Wrapf("over %d cannot win", threshold)
	}
	return nil
}

// MaxStake is the largest stake the treasury accepts given its available
// (unreserved) balance.
func MaxStake(available uint64, params types.Params) uint64 {
	limit := sdkmath.NewUint(available).
		MulUint64(uint64(params.MaxStakeBps)).
		QuoUint64(types.BpsDenominator)
	// MaxStakeBps <= 10000 keeps limit <= available.
	return limit.Uint64()
}

// ValidateStake requires minStake <= amount <= MaxStake(available).
func ValidateStake(amount, available uint64, params types.Params) error {
	if amount < params.MinStake {
		return types.ErrBetOutOfRange.Wrapf("stake %d below minimum %d", amount, params.MinStake)
	}
	maxStake := MaxStake(available, params)
	if amount > maxStake {
		return types.ErrBetOutOfRange.Wrapf("stake %d above maximum %d (%d bps of available treasury %d)",
			amount, maxStake, params.MaxStakeBps, available)
	}
	return nil
}
