package state

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"onchaindice/internal/types"
	"onchaindice/internal/vrf"
)

const derivationDomain = "dice/v1/derived-address"

// Treasury is the house bankroll. Its address is derived, not keyed: no
// private key exists for it, so funds leave only through settlement paths
// and authority withdrawals.
type Treasury struct {
	Authority string `json:"authority"`
	Address   string `json:"address"`
	Bump      uint8  `json:"bump"`
	Balance   uint64 `json:"balance"`
	// Reserved is the sum of maximum payouts still owed to committed bets.
	Reserved uint64 `json:"reserved"`
}

// DeriveAddress returns the first candidate, counting bump down from 255,
// that does not decode as a ristretto255 element.
func DeriveAddress(seed, programID string) (string, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		h.Write([]byte(derivationDomain))
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(seed)))
		h.Write(n[:])
		h.Write([]byte(seed))
		h.Write([]byte{byte(bump)})
		h.Write([]byte(programID))
		sum := h.Sum(nil)
		if !vrf.IsCanonicalPoint(sum) {
			return hex.EncodeToString(sum), uint8(bump), nil
		}
	}
	return "", 0, types.ErrInvalidRequest.Wrapf("no derived address for seed %q", seed)
}

func NewTreasury(authority string) (*Treasury, error) {
	if authority == "" {
		return nil, types.ErrInvalidRequest.Wrap("missing authority")
	}
	addr, bump, err := DeriveAddress(types.TreasurySeed, types.ProgramID)
	if err != nil {
		return nil, err
	}
	return &Treasury{Authority: authority, Address: addr, Bump: bump}, nil
}

// Available is the balance not promised to committed bets.
func (t *Treasury) Available() uint64 {
	if t.Reserved >= t.Balance {
		return 0
	}
	return t.Balance - t.Reserved
}

func (t *Treasury) Deposit(amount uint64) error {
	if t.Balance > ^uint64(0)-amount {
		return types.ErrArithmeticOverflow.Wrapf("treasury balance overflow: have=%d add=%d", t.Balance, amount)
	}
	t.Balance += amount
	return nil
}

// Reserve sets amount aside for a committed bet.
func (t *Treasury) Reserve(amount uint64) error {
	if t.Reserved > ^uint64(0)-amount {
		return types.ErrArithmeticOverflow.Wrapf("treasury reservation overflow: have=%d add=%d", t.Reserved, amount)
	}
	if t.Reserved+amount > t.Balance {
		return types.ErrInsufficientTreasury.Wrapf("cannot reserve %d: balance=%d reserved=%d", amount, t.Balance, t.Reserved)
	}
	t.Reserved += amount
	return nil
}

func (t *Treasury) Release(amount uint64) error {
	if amount > t.Reserved {
		return types.ErrArithmeticOverflow.Wrapf("release %d exceeds reserved %d", amount, t.Reserved)
	}
	t.Reserved -= amount
	return nil
}

// Disburse pays amount out of the unreserved balance.
func (t *Treasury) Disburse(amount uint64) error {
	if amount > t.Available() {
		return types.ErrInsufficientTreasury.Wrapf("cannot pay %d: balance=%d reserved=%d", amount, t.Balance, t.Reserved)
	}
	t.Balance -= amount
	return nil
}

// Withdraw removes authority funds, keeping reserved liabilities plus
// minReserve in place.
func (t *Treasury) Withdraw(amount, minReserve uint64) error {
	floor := t.Reserved
	if floor > ^uint64(0)-minReserve {
		return types.ErrArithmeticOverflow.Wrap("treasury floor overflows uint64")
	}
	floor += minReserve
	if t.Balance < amount || t.Balance-amount < floor {
		return types.ErrInsufficientTreasury.Wrapf("withdraw %d would leave %d below floor %d",
			amount, t.Balance-min(amount, t.Balance), floor)
	}
	t.Balance -= amount
	return nil
}
