package dto

import (
	"github.com/commitment-fund/backend/internal/commitments"
	"github.com/commitment-fund/backend/internal/denom"
	"github.com/commitment-fund/backend/internal/models"
	"github.com/commitment-fund/backend/internal/mvx"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// CommitmentView decorates a snapshot with its display amount.
type CommitmentView struct {
	models.Commitment
	Bucket     commitments.Bucket `json:"bucket"`
	AmountEGLD string             `json:"amount_egld"`
}

func NewCommitmentView(c models.Commitment) CommitmentView {
	return CommitmentView{
		Commitment: c,
		Bucket:     commitments.BucketOf(c.Status),
		AmountEGLD: denom.WeiToEgld(c.Amount, 4),
	}
}

func NewCommitmentViews(items []models.Commitment) []CommitmentView {
	views := make([]CommitmentView, 0, len(items))
	for _, item := range items {
		views = append(views, NewCommitmentView(item))
	}
	return views
}

// Now carries the server clock so clients can run their own boundary
// computations against the same time the page was built with.
type CommitmentListResponse struct {
	Items      []CommitmentView `json:"items"`
	Total      int              `json:"total"`
	NextCursor *int             `json:"next_cursor"`
	Now        int64            `json:"now"`
}

type CommitmentResponse struct {
	Item CommitmentView `json:"item"`
	Now  int64          `json:"now"`
}

type EligibilityResponse struct {
	Eligibility commitments.Eligibility `json:"eligibility"`
	Now         int64                   `json:"now"`
}

type ValidateCreateResponse struct {
	OK        bool                        `json:"ok"`
	Validated commitments.ValidatedCreate `json:"validated"`
}

type TxResponse struct {
	Tx mvx.TxPayload `json:"tx"`
}
