package commitments

import (
	"strings"

	"github.com/commitment-fund/backend/internal/models"
)

// Eligibility says which contract actions a viewer may take on a commitment
// at a given moment. Recomputed on every call, never stored.
type Eligibility struct {
	IsCreator      bool `json:"is_creator"`
	IsRecipient    bool `json:"is_recipient"`
	CanSubmitProof bool `json:"can_submit_proof"`
	CanFinalize    bool `json:"can_finalize"`
	CanClaim       bool `json:"can_claim"`
	CanCancel      bool `json:"can_cancel"`
}

// DeriveEligibility evaluates all flags against a single now value so the
// flags cannot disagree about the current time. An empty viewer address
// yields all-false flags.
//
// Boundary semantics follow the contract exactly: proof submission is still
// allowed at the deadline itself, finalize and cancel both require the
// deadline strictly passed / strictly ahead, and claim opens the second the
// cooldown elapses. The submit/cancel asymmetry at the deadline is
// intentional.
func DeriveEligibility(c models.Commitment, viewerAddress string, now int64) Eligibility {
	viewer := strings.TrimSpace(viewerAddress)
	isCreator := viewer != "" && viewer == c.Creator
	isRecipient := viewer != "" && viewer == c.Recipient

	isActive := c.Status == models.StatusActive
	isCompleted := c.Status == models.StatusCompleted
	isFailed := c.Status == models.StatusFailed

	return Eligibility{
		IsCreator:      isCreator,
		IsRecipient:    isRecipient,
		CanSubmitProof: isCreator && isActive && now <= c.Deadline,
		CanFinalize:    (isActive || isCompleted) && now > c.Deadline,
		CanClaim:       isRecipient && isFailed && c.FinalizedAt > 0 && now >= c.FinalizedAt+c.CooldownSeconds,
		CanCancel:      isCreator && isActive && now < c.Deadline,
	}
}
