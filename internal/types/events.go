package types

const (
	EventTypeBankMinted        = "BankMinted"
	EventTypeBankSent          = "BankSent"
	EventTypeAccountRegistered = "AccountRegistered"

	EventTypeTreasuryInitialized = "TreasuryInitialized"
	EventTypeTreasuryFunded      = "TreasuryFunded"
	EventTypeTreasuryWithdrawn   = "TreasuryWithdrawn"

	EventTypeOracleRegistered    = "OracleRegistered"
	EventTypeRandomnessRequested = "RandomnessRequested"
	EventTypeRandomnessCommitted = "RandomnessCommitted"
	EventTypeRandomnessRevealed  = "RandomnessRevealed"

	EventTypeBetCommitted = "BetCommitted"
	EventTypeBetSettled   = "BetSettled"
	EventTypeBetVoided    = "BetVoided"
)
