// Package settlement derives a bet's outcome from a revealed random value.
package settlement

import (
	"github.com/holiman/uint256"

	"onchaindice/internal/rules"
	"onchaindice/internal/types"
)

// ValueSize is the length of a revealed random value.
const ValueSize = 32

var rollSpace = uint256.NewInt(rules.RollSpace)

// Roll reads value as a big-endian 256-bit integer and reduces it mod 100.
func Roll(value []byte) (uint8, error) {
	if len(value) != ValueSize {
		return 0, types.ErrInvalidRequest.Wrapf("random value must be %d bytes, got %d", ValueSize, len(value))
	}
	x := new(uint256.Int).SetBytes(value)
	return uint8(x.Mod(x, rollSpace).Uint64()), nil
}

// Wins compares strictly: the threshold itself loses in both directions.
func Wins(roll uint8, threshold uint32, dir types.Direction) bool {
	switch dir {
	case types.DirectionOver:
		return uint32(roll) > threshold
	case types.DirectionUnder:
		return uint32(roll) < threshold
	default:
		return false
	}
}

// WinningRange is the number of rolls in [0, 100) that win.
func WinningRange(threshold uint32, dir types.Direction) uint64 {
	switch dir {
	case types.DirectionOver:
		if threshold >= rules.RollSpace-1 {
			return 0
		}
		return uint64(rules.RollSpace - 1 - threshold)
	case types.DirectionUnder:
		if threshold > rules.RollSpace {
			return rules.RollSpace
		}
		return uint64(threshold)
	default:
		return 0
	}
}
