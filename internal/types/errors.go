package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// x/dice sentinel errors.
var (
	ErrInvalidRequest          = errorsmod.Register(ModuleName, 2, "invalid request")
	ErrInvalidGuess            = errorsmod.Register(ModuleName, 3, "invalid guess")
	ErrBetOutOfRange           = errorsmod.Register(ModuleName, 4, "bet out of range")
	ErrCommitmentAlreadyBound  = errorsmod.Register(ModuleName, 5, "commitment already bound")
	ErrCommitmentMismatch      = errorsmod.Register(ModuleName, 6, "commitment mismatch")
	ErrRevealNotReady          = errorsmod.Register(ModuleName, 7, "reveal not ready")
	ErrCommitmentExpired       = errorsmod.Register(ModuleName, 8, "commitment expired")
	ErrRoundAlreadyFinalized   = errorsmod.Register(ModuleName, 9, "round already finalized")
	ErrArithmeticOverflow      = errorsmod.Register(ModuleName, 10, "arithmetic overflow")
	ErrCommitmentNotExpired    = errorsmod.Register(ModuleName, 11, "commitment not expired")
	ErrRevealAvailable         = errorsmod.Register(ModuleName, 12, "reveal available")
	ErrRoundNotFound           = errorsmod.Register(ModuleName, 13, "round not found")
	ErrRandomnessNotFound      = errorsmod.Register(ModuleName, 14, "randomness account not found")
	ErrRandomnessNotCommitted  = errorsmod.Register(ModuleName, 15, "randomness not committed")
	ErrRandomnessRevealed      = errorsmod.Register(ModuleName, 16, "randomness already revealed")
	ErrCommitmentConsumed      = errorsmod.Register(ModuleName, 17, "commitment already consumed")
	ErrOracleNotFound          = errorsmod.Register(ModuleName, 18, "oracle not found")
	ErrInvalidProof            = errorsmod.Register(ModuleName, 19, "invalid randomness proof")
	ErrInsufficientFunds       = errorsmod.Register(ModuleName, 20, "insufficient funds")
	ErrInsufficientTreasury    = errorsmod.Register(ModuleName, 21, "insufficient treasury funds")
	ErrUnauthorized            = errorsmod.Register(ModuleName, 22, "unauthorized")
	ErrTreasuryNotInitialized  = errorsmod.Register(ModuleName, 23, "treasury not initialized")
	ErrTreasuryExists          = errorsmod.Register(ModuleName, 24, "treasury already initialized")
	ErrWithdrawalLimitExceeded = errorsmod.Register(ModuleName, 25, "withdrawal limit exceeded")
	ErrInvalidTransition       = errorsmod.Register(ModuleName, 26, "invalid bet transition")
	ErrInvalidParams           = errorsmod.Register(ModuleName, 27, "invalid params")
)

// kinds maps each sentinel to the stable identifier clients match on.
var kinds = []struct {
	err  *errorsmod.Error
	kind string
}{
	{ErrInvalidRequest, "InvalidRequest"},
	{ErrInvalidGuess, "InvalidGuess"},
	{ErrBetOutOfRange, "BetOutOfRange"},
	{ErrCommitmentAlreadyBound, "CommitmentAlreadyBound"},
	{ErrCommitmentMismatch, "CommitmentMismatch"},
	{ErrRevealNotReady, "RevealNotReady"},
	{ErrCommitmentExpired, "CommitmentExpired"},
	{ErrRoundAlreadyFinalized, "RoundAlreadyFinalized"},
	{ErrArithmeticOverflow, "ArithmeticOverflow"},
	{ErrCommitmentNotExpired, "CommitmentNotExpired"},
	{ErrRevealAvailable, "RevealAvailable"},
	{ErrRoundNotFound, "RoundNotFound"},
	{ErrRandomnessNotFound, "RandomnessNotFound"},
	{ErrRandomnessNotCommitted, "RandomnessNotCommitted"},
	{ErrRandomnessRevealed, "RandomnessAlreadyRevealed"},
	{ErrCommitmentConsumed, "CommitmentConsumed"},
	{ErrOracleNotFound, "OracleNotFound"},
	{ErrInvalidProof, "InvalidProof"},
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrInsufficientTreasury, "InsufficientTreasuryFunds"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrTreasuryNotInitialized, "TreasuryNotInitialized"},
	{ErrTreasuryExists, "TreasuryExists"},
	{ErrWithdrawalLimitExceeded, "WithdrawalLimitExceeded"},
	{ErrInvalidTransition, "InvalidTransition"},
	{ErrInvalidParams, "InvalidParams"},
}

// KindOf returns the stable identifier of a registered dice error, or
// "Internal" for anything else.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "Internal"
}

// IsRetryable reports whether a failed tx may succeed unchanged at a later height.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRevealNotReady) || errors.Is(err, ErrCommitmentNotExpired)
}
