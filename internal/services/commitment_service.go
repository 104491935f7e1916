package services

import (
	"context"
	"time"

	"github.com/commitment-fund/backend/internal/commitments"
	"github.com/commitment-fund/backend/internal/models"
	"github.com/commitment-fund/backend/internal/mvx"
	"github.com/commitment-fund/backend/internal/repositories"
	"go.uber.org/zap"
)

// CommitmentService serves reads from the snapshot store through the pure
// query engine, and turns validated user input into wallet-signable
// transaction payloads.
type CommitmentService struct {
	repo      *repositories.CommitmentRepo
	txBuilder *mvx.TxBuilder
	log       *zap.Logger
}

func NewCommitmentService(repo *repositories.CommitmentRepo, txBuilder *mvx.TxBuilder, log *zap.Logger) *CommitmentService {
	return &CommitmentService{repo: repo, txBuilder: txBuilder, log: log}
}

func (s *CommitmentService) List(ctx context.Context, in commitments.QueryInput) (commitments.QueryOutput, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return commitments.QueryOutput{}, err
	}
	return commitments.Query(all, in), nil
}

func (s *CommitmentService) Get(ctx context.Context, id uint64) (*models.Commitment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CommitmentService) Eligibility(ctx context.Context, id uint64, viewer string, now int64) (*commitments.Eligibility, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e := commitments.DeriveEligibility(*c, viewer, now)
	return &e, nil
}

// ValidateCreate normalizes raw creation-form input, stamping the current
// time when the caller did not pin one.
func (s *CommitmentService) ValidateCreate(in commitments.CreateInput) (commitments.ValidatedCreate, error) {
	if in.Now == 0 {
		in.Now = time.Now().Unix()
	}
	return commitments.ValidateCreateInput(in)
}

func (s *CommitmentService) BuildCreateTx(in commitments.CreateInput) (mvx.TxPayload, error) {
	validated, err := s.ValidateCreate(in)
	if err != nil {
		return mvx.TxPayload{}, err
	}
	return s.txBuilder.CreateCommitment(validated)
}

func (s *CommitmentService) BuildSubmitProofTx(id uint64, proofURL string) (mvx.TxPayload, error) {
	return s.txBuilder.SubmitProof(id, proofURL)
}

func (s *CommitmentService) BuildFinalizeTx(id uint64) mvx.TxPayload {
	return s.txBuilder.Finalize(id)
}

func (s *CommitmentService) BuildClaimTx(id uint64) mvx.TxPayload {
	return s.txBuilder.Claim(id)
}

func (s *CommitmentService) BuildCancelTx(id uint64) mvx.TxPayload {
	return s.txBuilder.Cancel(id)
}
