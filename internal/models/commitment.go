package models

// Status codes as stored by the commitment fund contract.
type Status uint8

const (
	StatusActive    Status = 0
	StatusCompleted Status = 1
	StatusFailed    Status = 2
	StatusRefunded  Status = 3
	StatusClaimed   Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusRefunded:
		return "refunded"
	case StatusClaimed:
		return "claimed"
	}
	return "unknown"
}

// Valid state transitions the contract can produce: from -> []to.
// Active moves to Completed on proof submission, to Failed on a missed
// deadline finalize, or straight to Refunded on cancel. Completed moves to
// Refunded when finalized. Failed moves to Claimed after the cooldown.
var ValidStatusTransitions = map[Status][]Status{
	StatusActive:    {StatusCompleted, StatusFailed, StatusRefunded},
	StatusCompleted: {StatusRefunded},
	StatusFailed:    {StatusClaimed},
	StatusRefunded:  {},
	StatusClaimed:   {},
}

func IsValidTransition(from, to Status) bool {
	allowed, ok := ValidStatusTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Commitment is a read-only snapshot of one on-chain escrow record. The
// contract owns every field; this service only decodes, stores and classifies.
type Commitment struct {
	ID               uint64 `json:"id"`
	Creator          string `json:"creator"`
	Recipient        string `json:"recipient"`
	Amount           string `json:"amount"` // wei, decimal string
	Deadline         int64  `json:"deadline"`
	CooldownSeconds  int64  `json:"cooldown_seconds"`
	CreatedAt        int64  `json:"created_at"`
	Status           Status `json:"status"`
	Title            string `json:"title"`
	ProofURL         string `json:"proof_url"`
	ProofHash        string `json:"proof_hash"` // hex
	ProofSubmittedAt int64  `json:"proof_submitted_at"`
	FinalizedAt      int64  `json:"finalized_at"`
}
