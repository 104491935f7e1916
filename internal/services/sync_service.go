package services

import (
	"context"

	"github.com/commitment-fund/backend/internal/denom"
	"github.com/commitment-fund/backend/internal/events"
	"github.com/commitment-fund/backend/internal/models"
	"github.com/commitment-fund/backend/internal/mvx"
	"github.com/commitment-fund/backend/internal/repositories"
	"go.uber.org/zap"
)

// SyncService pulls the full commitment collection from the chain gateway
// into the snapshot store and publishes events for anything that changed.
type SyncService struct {
	chain     *mvx.Client
	repo      *repositories.CommitmentRepo
	publisher events.Publisher
	log       *zap.Logger
}

func NewSyncService(chain *mvx.Client, repo *repositories.CommitmentRepo, publisher events.Publisher, log *zap.Logger) *SyncService {
	return &SyncService{chain: chain, repo: repo, publisher: publisher, log: log}
}

func (s *SyncService) Sync(ctx context.Context) error {
	items, err := s.chain.FetchAll(ctx)
	if err != nil {
		return err
	}

	known, err := s.repo.StatusByID(ctx)
	if err != nil {
		return err
	}

	var created, changed int
	for _, c := range items {
		prev, seen := known[c.ID]
		switch {
		case !seen:
			created++
			s.publish(ctx, events.Event{
				Type: events.EventCommitmentCreated,
				Payload: map[string]any{
					"id":      c.ID,
					"creator": denom.ShortAddress(c.Creator),
					"title":   c.Title,
					"status":  c.Status.String(),
				},
			})
		case prev != c.Status:
			changed++
			if !models.IsValidTransition(prev, c.Status) {
				// Should only happen if the store lagged several
				// transitions behind or the contract was upgraded.
				s.log.Warn("unexpected status transition",
					zap.Uint64("id", c.ID),
					zap.String("from", prev.String()),
					zap.String("to", c.Status.String()),
				)
			}
			s.publish(ctx, events.Event{
				Type: events.EventCommitmentStatusChanged,
				Payload: map[string]any{
					"id":         c.ID,
					"old_status": prev.String(),
					"new_status": c.Status.String(),
				},
			})
		}
	}

	if err := s.repo.UpsertBatch(ctx, items); err != nil {
		return err
	}

	if created > 0 || changed > 0 {
		s.log.Info("sync applied changes",
			zap.Int("created", created),
			zap.Int("status_changed", changed),
			zap.Int("total", len(items)),
		)
	}
	return nil
}

func (s *SyncService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, events.StreamCommitments, event); err != nil {
		s.log.Error("failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}
