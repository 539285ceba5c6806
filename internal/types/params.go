package types

import "fmt"

const (
	DefaultMinStake           uint64 = 1_000_000
	DefaultMaxStakeBps        uint32 = 100
	DefaultHouseEdgeBps       uint32 = 500
	DefaultRevealWindowBlocks int64  = 150
	DefaultMaxWithdrawal             = 10 * BaseUnitsPerUnit

	BpsDenominator uint64 = 10_000
)

// Params are the house rules, fixed at genesis.
type Params struct {
	// MinStake is the smallest accepted stake in base units.
	MinStake uint64 `json:"minStake"`
	// MaxStakeBps caps a stake at this fraction of the available treasury.
	MaxStakeBps uint32 `json:"maxStakeBps"`
	// HouseEdgeBps is taken from every gross winning payout.
	HouseEdgeBps uint32 `json:"houseEdgeBps"`
	// RevealWindowBlocks is how long an oracle has to reveal after committing.
	RevealWindowBlocks int64 `json:"revealWindowBlocks"`
	// MaxWithdrawal bounds a single treasury withdrawal.
	MaxWithdrawal uint64 `json:"maxWithdrawal"`
	// MinTreasuryReserve is kept in the treasury on top of reserved liabilities.
	MinTreasuryReserve uint64 `json:"minTreasuryReserve,omitempty"`
}

func DefaultParams() Params {
	return Params{
		MinStake:           DefaultMinStake,
		MaxStakeBps:        DefaultMaxStakeBps,
		HouseEdgeBps:       DefaultHouseEdgeBps,
		RevealWindowBlocks: DefaultRevealWindowBlocks,
		MaxWithdrawal:      DefaultMaxWithdrawal,
	}
}

func (p Params) Validate() error {
	if p.MinStake == 0 {
		return ErrInvalidParams.Wrap("minStake must be > 0")
	}
	if p.MaxStakeBps == 0 || uint64(p.MaxStakeBps) > BpsDenominator {
		return ErrInvalidParams.Wrapf("maxStakeBps must be in (0, %d]", BpsDenominator)
	}
	if uint64(p.HouseEdgeBps) >= BpsDenominator {
		return ErrInvalidParams.Wrapf("houseEdgeBps must be < %d", BpsDenominator)
	}
	if p.RevealWindowBlocks <= 0 {
		return ErrInvalidParams.Wrap("revealWindowBlocks must be > 0")
	}
	if p.MaxWithdrawal == 0 {
		return ErrInvalidParams.Wrap("maxWithdrawal must be > 0")
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("minStake=%d maxStakeBps=%d houseEdgeBps=%d revealWindow=%d maxWithdrawal=%d",
		p.MinStake, p.MaxStakeBps, p.HouseEdgeBps, p.RevealWindowBlocks, p.MaxWithdrawal)
}
