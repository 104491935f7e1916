package repositories

import (
	"context"

	"github.com/commitment-fund/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommitmentRepo stores chain snapshots of commitments. The indexer writes,
// the API reads; the chain remains the source of truth.
type CommitmentRepo struct {
	pool *pgxpool.Pool
}

func NewCommitmentRepo(pool *pgxpool.Pool) *CommitmentRepo {
	return &CommitmentRepo{pool: pool}
}

const commitmentColumns = `id, creator, recipient, amount, deadline, cooldown_seconds,
       created_at, status, title, proof_url, proof_hash, proof_submitted_at, finalized_at`

func (r *CommitmentRepo) UpsertBatch(ctx context.Context, items []models.Commitment) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range items {
		batch.Queue(`
			INSERT INTO commitments (id, creator, recipient, amount, deadline, cooldown_seconds,
			                         created_at, status, title, proof_url, proof_hash,
			                         proof_submitted_at, finalized_at, synced_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
			ON CONFLICT (id) DO UPDATE SET
				amount = EXCLUDED.amount,
				status = EXCLUDED.status,
				proof_url = EXCLUDED.proof_url,
				proof_hash = EXCLUDED.proof_hash,
				proof_submitted_at = EXCLUDED.proof_submitted_at,
				finalized_at = EXCLUDED.finalized_at,
				synced_at = now()
		`, c.ID, c.Creator, c.Recipient, c.Amount, c.Deadline, c.CooldownSeconds,
			c.CreatedAt, c.Status, c.Title, c.ProofURL, c.ProofHash,
			c.ProofSubmittedAt, c.FinalizedAt)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range items {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *CommitmentRepo) ListAll(ctx context.Context) ([]models.Commitment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commitmentColumns+` FROM commitments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Commitment
	for rows.Next() {
		var c models.Commitment
		if err := rows.Scan(&c.ID, &c.Creator, &c.Recipient, &c.Amount, &c.Deadline, &c.CooldownSeconds,
			&c.CreatedAt, &c.Status, &c.Title, &c.ProofURL, &c.ProofHash,
			&c.ProofSubmittedAt, &c.FinalizedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *CommitmentRepo) GetByID(ctx context.Context, id uint64) (*models.Commitment, error) {
	var c models.Commitment
	err := r.pool.QueryRow(ctx, `SELECT `+commitmentColumns+` FROM commitments WHERE id = $1`, id).
		Scan(&c.ID, &c.Creator, &c.Recipient, &c.Amount, &c.Deadline, &c.CooldownSeconds,
			&c.CreatedAt, &c.Status, &c.Title, &c.ProofURL, &c.ProofHash,
			&c.ProofSubmittedAt, &c.FinalizedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// StatusByID returns the stored status of every known commitment, for the
// indexer's change-detection pass.
func (r *CommitmentRepo) StatusByID(ctx context.Context) (map[uint64]models.Status, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, status FROM commitments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(map[uint64]models.Status)
	for rows.Next() {
		var id uint64
		var status models.Status
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		statuses[id] = status
	}
	return statuses, rows.Err()
}
