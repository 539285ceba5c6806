package app

import (
	"onchaindice/internal/types"
)

func addUint64Checked(a uint64, b uint64, field string) (uint64, error) {
	if a > ^uint64(0)-b {
		return 0, types.ErrArithmeticOverflow.Wrapf("%s overflows uint64", field)
	}
	return a + b, nil
}

func addInt64Checked(a int64, b int64, field string) (int64, error) {
	if b > 0 && a > (1<<63-1)-b {
		return 0, types.ErrArithmeticOverflow.Wrapf("%s overflows int64", field)
	}
	if b < 0 && a < (-1<<63)-b {
		return 0, types.ErrArithmeticOverflow.Wrapf("%s underflows int64", field)
	}
	return a + b, nil
}
