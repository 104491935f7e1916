// Package commitments holds the pure query, sorting, eligibility and
// validation logic over commitment snapshots. Nothing here performs I/O or
// reads the wall clock; callers supply the full collection and the current
// time, which keeps every evaluation deterministic.
package commitments

import (
	"sort"

	"github.com/commitment-fund/backend/internal/models"
)

// Bucket is the coarse lifecycle grouping derived from the fine-grained
// contract status.
type Bucket string

const (
	BucketActive    Bucket = "active"
	BucketCompleted Bucket = "completed"
	BucketFailed    Bucket = "failed"

	// BucketAll disables bucket filtering in queries and selects the
	// recency sort order.
	BucketAll Bucket = "all"
)

// BucketOf maps a contract status to its bucket. Total: unknown codes land
// in failed alongside Failed and Claimed.
func BucketOf(s models.Status) Bucket {
	switch s {
	case models.StatusActive:
		return BucketActive
	case models.StatusCompleted, models.StatusRefunded:
		return BucketCompleted
	}
	return BucketFailed
}

// ParseBucket interprets a raw filter value, falling back to BucketAll for
// anything unrecognized.
func ParseBucket(raw string) Bucket {
	switch Bucket(raw) {
	case BucketActive, BucketCompleted, BucketFailed:
		return Bucket(raw)
	}
	return BucketAll
}

// SortCommitments returns a new ordered slice; the input is left untouched.
//
//   - active: soonest deadline first, ties broken by newest creation.
//   - completed/failed: most recently finalized first (creation time stands
//     in when finalized_at is zero), ties broken by highest id.
//   - all: newest creation first, ties broken by highest id.
//
// The tie-breaks make the ordering total, so equal primary keys still come
// out in a deterministic order.
func SortCommitments(items []models.Commitment, scope Bucket) []models.Commitment {
	sorted := make([]models.Commitment, len(items))
	copy(sorted, items)

	switch scope {
	case BucketActive:
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if a.Deadline != b.Deadline {
				return a.Deadline < b.Deadline
			}
			return a.CreatedAt > b.CreatedAt
		})
	case BucketCompleted, BucketFailed:
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			at, bt := effectiveTime(a), effectiveTime(b)
			if at != bt {
				return at > bt
			}
			return a.ID > b.ID
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt > b.CreatedAt
			}
			return a.ID > b.ID
		})
	}

	return sorted
}

func effectiveTime(c models.Commitment) int64 {
	if c.FinalizedAt != 0 {
		return c.FinalizedAt
	}
	return c.CreatedAt
}
