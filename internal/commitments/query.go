package commitments

import (
	"strings"

	"github.com/commitment-fund/backend/internal/models"
)

type QueryInput struct {
	Status Bucket
	Mine   string
	Cursor int
	Limit  int
}

type QueryOutput struct {
	Items []models.Commitment `json:"items"`
	Total int                 `json:"total"`
	// NextCursor is nil when there are no more pages.
	NextCursor *int `json:"next_cursor"`
}

// Query filters by bucket and ownership, sorts with the bucket as scope, and
// slices out one page. Total counts the post-filter, pre-slice set. Cursor
// and Limit are taken as-is — clamping to sane ranges is the HTTP boundary's
// job; negative values only degrade to an empty page.
func Query(all []models.Commitment, in QueryInput) QueryOutput {
	mine := strings.TrimSpace(in.Mine)

	filtered := make([]models.Commitment, 0, len(all))
	for _, item := range all {
		if in.Status != BucketAll && BucketOf(item.Status) != in.Status {
			continue
		}
		if mine != "" && item.Creator != mine && item.Recipient != mine {
			continue
		}
		filtered = append(filtered, item)
	}

	sorted := SortCommitments(filtered, in.Status)

	cursor := max(in.Cursor, 0)
	limit := max(in.Limit, 0)

	start := min(cursor, len(sorted))
	end := min(start+limit, len(sorted))

	out := QueryOutput{
		Items: sorted[start:end],
		Total: len(sorted),
	}
	if next := cursor + limit; next < len(sorted) {
		out.NextCursor = &next
	}
	return out
}
