package state

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"onchaindice/internal/types"
)

func TestAppHash_StableAcrossMapOrder(t *testing.T) {
	s1 := NewState()
	s1.Height = 7
	s1.Accounts["bob"] = 2
	s1.Accounts["alice"] = 1
	s1.Bets[BetKey("bob", 1)] = NewBetEntry("bob", 1, 5, 50, types.DirectionOver)
	s1.Bets[BetKey("alice", 1)] = NewBetEntry("alice", 1, 5, 50, types.DirectionUnder)

	s2 := NewState()
	s2.Height = 7
	s2.Accounts["alice"] = 1
	s2.Accounts["bob"] = 2
	s2.Bets[BetKey("alice", 1)] = NewBetEntry("alice", 1, 5, 50, types.DirectionUnder)
	s2.Bets[BetKey("bob", 1)] = NewBetEntry("bob", 1, 5, 50, types.DirectionOver)

	h1 := s1.AppHash()
	h2 := s2.AppHash()
	if !bytes.Equal(h1, h2) {
		t.Fatalf("expected stable app hash; h1=%x h2=%x", h1, h2)
	}

	// Any semantic change should change the hash.
	s2.Accounts["alice"] = 9
	h3 := s2.AppHash()
	if bytes.Equal(h1, h3) {
		t.Fatalf("expected hash to change after state mutation")
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := NewState()
	s.Accounts["alice"] = 10
	s.Treasury = &Treasury{Authority: "house", Balance: 100}
	s.Bets[BetKey("alice", 1)] = NewBetEntry("alice", 1, 5, 50, types.DirectionOver)

	c, err := s.Clone()
	require.NoError(t, err)

	c.Accounts["alice"] = 0
	c.Treasury.Balance = 0
	c.Bets[BetKey("alice", 1)].Status = BetVoided

	require.Equal(t, uint64(10), s.Accounts["alice"])
	require.Equal(t, uint64(100), s.Treasury.Balance)
	require.Equal(t, BetCreated, s.Bets[BetKey("alice", 1)].Status)
}

func TestCreditDebit(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Credit("alice", 10))
	require.ErrorIs(t, s.Debit("alice", 11), types.ErrInsufficientFunds)
	require.NoError(t, s.Debit("alice", 10))
	require.Equal(t, uint64(0), s.Balance("alice"))

	s.Accounts["whale"] = ^uint64(0)
	require.ErrorIs(t, s.Credit("whale", 1), types.ErrArithmeticOverflow)
	require.Equal(t, ^uint64(0), s.Balance("whale"))
}

func TestBetKey_DoesNotCollide(t *testing.T) {
	require.NotEqual(t, BetKey("a/1", 2), BetKey("a", 12))
	require.Equal(t, "alice/7", BetKey("alice", 7))
}

func TestTotalSupply_IncludesTreasury(t *testing.T) {
	s := NewState()
	s.Accounts["alice"] = 10
	s.Accounts["bob"] = 5
	total, err := s.TotalSupply()
	require.NoError(t, err)
	require.Equal(t, uint64(15), total)

	s.Treasury = &Treasury{Balance: 100}
	total, err = s.TotalSupply()
	require.NoError(t, err)
	require.Equal(t, uint64(115), total)
}
