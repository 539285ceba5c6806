package state

type RandomnessStatus string

const (
	RandomnessRequested RandomnessStatus = "requested"
	RandomnessCommitted RandomnessStatus = "committed"
	RandomnessRevealed  RandomnessStatus = "revealed"
	// RandomnessConsumed: the revealed value settled a bet.
	RandomnessConsumed RandomnessStatus = "consumed"
	// RandomnessExpired: the window closed unrevealed and a bet was voided.
	RandomnessExpired RandomnessStatus = "expired"
)

// Oracle is a registered randomness producer.
type Oracle struct {
	ID           string `json:"id"`
	PubKey       []byte `json:"pubKey"` // ristretto255 VRF key
	Registered   int64  `json:"registeredHeight"`
	Reveals      uint64 `json:"reveals,omitempty"`
	MissedWindow uint64 `json:"missedWindows,omitempty"`
}

// RandomnessAccount is one oracle commitment, usable by exactly one bet.
type RandomnessAccount struct {
	ID        uint64           `json:"id"`
	Oracle    string           `json:"oracle"`
	Requester string           `json:"requester"`
	Status    RandomnessStatus `json:"status"`

	RequestHeight int64 `json:"requestHeight"`
	// Seed is the VRF input, fixed by the oracle's commit.
	Seed         []byte `json:"seed,omitempty"`
	CommitHeight int64  `json:"commitHeight,omitempty"`
	ExpiryHeight int64  `json:"expiryHeight,omitempty"`

	Value        []byte `json:"value,omitempty"`
	Proof        []byte `json:"proof,omitempty"`
	RevealHeight int64  `json:"revealHeight,omitempty"`

	// BoundBet is the BetKey this commitment is bound to.
	BoundBet   string `json:"boundBet,omitempty"`
	BindHeight int64  `json:"bindHeight,omitempty"`
}

func (r *RandomnessAccount) Revealed() bool {
	return len(r.Value) != 0
}
