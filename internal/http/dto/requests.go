package dto

// CreateCommitmentRequest carries the raw creation form. Sender is the
// connected wallet; it only needs to be present when building a
// transaction, not for validation.
type CreateCommitmentRequest struct {
	Sender            string `json:"sender,omitempty"`
	Title             string `json:"title"`
	Amount            string `json:"amount"` // EGLD, decimal string
	Deadline          string `json:"deadline"`
	Recipient         string `json:"recipient"`
	UseCustomCooldown bool   `json:"use_custom_cooldown"`
	Cooldown          string `json:"cooldown,omitempty"`
}

type SubmitProofRequest struct {
	Sender   string `json:"sender,omitempty"`
	ID       uint64 `json:"id"`
	ProofURL string `json:"proof_url"`
}

// CommitmentActionRequest covers finalize, claim and cancel — endpoints
// that only need the commitment id.
type CommitmentActionRequest struct {
	Sender string `json:"sender,omitempty"`
	ID     uint64 `json:"id"`
}
