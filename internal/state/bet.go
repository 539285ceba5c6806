package state

import (
	"strconv"

	"onchaindice/internal/settlement"
	"onchaindice/internal/types"
)

type BetStatus string

const (
	// BetCreated exists only while a commit tx is being validated.
	BetCreated   BetStatus = "created"
	BetCommitted BetStatus = "committed"
	BetSettled   BetStatus = "settled"
	BetVoided    BetStatus = "voided"
)

func (s BetStatus) Final() bool {
	return s == BetSettled || s == BetVoided
}

// BetKey identifies a round. Round ids are scoped per player.
func BetKey(player string, roundID uint64) string {
	return player + "/" + strconv.FormatUint(roundID, 10)
}

type BetEntry struct {
	Player       string          `json:"player"`
	RoundID      uint64          `json:"roundId"`
	Stake        uint64          `json:"stake"`
	Threshold    uint32          `json:"threshold"`
	Direction    types.Direction `json:"direction"`
	RandomnessID uint64          `json:"randomnessId,omitempty"`
	// Reserved is the maximum payout set aside in the treasury.
	Reserved uint64    `json:"reserved,omitempty"`
	Status   BetStatus `json:"status"`

	CommittedHeight int64 `json:"committedHeight,omitempty"`
	CommittedAt     int64 `json:"committedAt,omitempty"` // unix seconds
	FinalizedHeight int64 `json:"finalizedHeight,omitempty"`

	Outcome *settlement.Outcome `json:"outcome,omitempty"`
}

func NewBetEntry(player string, roundID, stake uint64, threshold uint32, dir types.Direction) *BetEntry {
	return &BetEntry{
		Player:    player,
		RoundID:   roundID,
		Stake:     stake,
		Threshold: threshold,
		Direction: dir,
		Status:    BetCreated,
	}
}

func (b *BetEntry) Key() string { return BetKey(b.Player, b.RoundID) }

func (b *BetEntry) transition(from, to BetStatus) error {
	if b.Status.Final() {
		return types.ErrRoundAlreadyFinalized.Wrapf("round %s is %s", b.Key(), b.Status)
	}
	if b.Status != from {
		return types.ErrInvalidTransition.Wrapf("round %s: %s -> %s", b.Key(), b.Status, to)
	}
	b.Status = to
	return nil
}

func (b *BetEntry) Commit(randomnessID, reserved uint64, height, nowUnix int64) error {
	if err := b.transition(BetCreated, BetCommitted); err != nil {
		return err
	}
	b.RandomnessID = randomnessID
	b.Reserved = reserved
	b.CommittedHeight = height
	b.CommittedAt = nowUnix
	return nil
}

func (b *BetEntry) Settle(out settlement.Outcome, height int64) error {
	if err := b.transition(BetCommitted, BetSettled); err != nil {
		return err
	}
	b.Outcome = &out
	b.Reserved = 0
	b.FinalizedHeight = height
	return nil
}

func (b *BetEntry) Void(height int64) error {
	if err := b.transition(BetCommitted, BetVoided); err != nil {
		return err
	}
	b.Reserved = 0
	b.FinalizedHeight = height
	return nil
}
