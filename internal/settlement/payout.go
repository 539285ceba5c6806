package settlement

import (
	"github.com/holiman/uint256"

	"onchaindice/internal/rules"
	"onchaindice/internal/types"
)

// Outcome is the settled result of one bet.
type Outcome struct {
	Roll   uint8  `json:"roll"`
	Won    bool   `json:"won"`
	Payout uint64 `json:"payout"`
}

// Payout returns what a winning bet pays back in total, stake included:
//
//	gross = stake * 100 / winningRange
//	net   = gross - gross * houseEdgeBps / 10000
//	pay   = max(net, stake)
func Payout(stake uint64, threshold uint32, dir types.Direction, houseEdgeBps uint32) (uint64, error) {
	winRange := WinningRange(threshold, dir)
	if winRange == 0 {
		return 0, types.ErrInvalidGuess.Wrapf("%s %d has no winning rolls", dir, threshold)
	}
	scaled, err := mulChecked(stake, rules.RollSpace, "stake*100")
	if err != nil {
		return 0, err
	}
	gross := scaled / winRange

	edgeScaled, err := mulChecked(gross, uint64(houseEdgeBps), "payout*houseEdgeBps")
	if err != nil {
		return 0, err
	}
	net := gross - edgeScaled/types.BpsDenominator
	if net < stake {
		return stake, nil
	}
	return net, nil
}

// Evaluate rolls value and prices the result for a committed bet.
func Evaluate(value []byte, stake uint64, threshold uint32, dir types.Direction, houseEdgeBps uint32) (Outcome, error) {
	roll, err := Roll(value)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Roll: roll, Won: Wins(roll, threshold, dir)}
	if !out.Won {
		return out, nil
	}
	out.Payout, err = Payout(stake, threshold, dir, houseEdgeBps)
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func mulChecked(a, b uint64, what string) (uint64, error) {
	p := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	if !p.IsUint64() {
		return 0, types.ErrArithmeticOverflow.Wrapf("%s overflows uint64", what)
	}
	return p.Uint64(), nil
}
