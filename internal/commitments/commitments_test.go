package commitments

import (
	"reflect"
	"testing"

	"github.com/commitment-fund/backend/internal/models"
)

func baseCommitment() models.Commitment {
	return models.Commitment{
		ID:              1,
		Creator:         "erd1creator",
		Recipient:       "erd1recipient",
		Amount:          "1000000000000000000",
		Deadline:        1000,
		CooldownSeconds: 86400,
		CreatedAt:       100,
		Status:          models.StatusActive,
		Title:           "Ship feature",
	}
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		status   models.Status
		expected Bucket
	}{
		{models.StatusActive, BucketActive},
		{models.StatusCompleted, BucketCompleted},
		{models.StatusRefunded, BucketCompleted},
		{models.StatusFailed, BucketFailed},
		{models.StatusClaimed, BucketFailed},
		// Unknown codes still land somewhere
		{models.Status(42), BucketFailed},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := BucketOf(tt.status); got != tt.expected {
				t.Errorf("BucketOf(%v) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestParseBucket(t *testing.T) {
	tests := []struct {
		raw      string
		expected Bucket
	}{
		{"active", BucketActive},
		{"completed", BucketCompleted},
		{"failed", BucketFailed},
		{"all", BucketAll},
		{"", BucketAll},
		{"bogus", BucketAll},
	}

	for _, tt := range tests {
		if got := ParseBucket(tt.raw); got != tt.expected {
			t.Errorf("ParseBucket(%q) = %q, want %q", tt.raw, got, tt.expected)
		}
	}
}

func TestSortCommitmentsActiveByNearestDeadline(t *testing.T) {
	a := baseCommitment()
	a.ID, a.Deadline = 1, 500
	b := baseCommitment()
	b.ID, b.Deadline = 2, 200
	c := baseCommitment()
	c.ID, c.Deadline = 3, 800

	input := []models.Commitment{a, b, c}
	sorted := SortCommitments(input, BucketActive)

	if got, want := ids(sorted), []uint64{2, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("active sort order = %v, want %v", got, want)
	}
	if input[0].ID != 1 {
		t.Error("SortCommitments mutated its input")
	}
}

func TestSortCommitmentsActiveTieBreaksByNewestCreation(t *testing.T) {
	a := baseCommitment()
	a.ID, a.Deadline, a.CreatedAt = 1, 500, 10
	b := baseCommitment()
	b.ID, b.Deadline, b.CreatedAt = 2, 500, 20

	sorted := SortCommitments([]models.Commitment{a, b}, BucketActive)
	if got, want := ids(sorted), []uint64{2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("tie-break order = %v, want %v", got, want)
	}
}

func TestSortCommitmentsFinalizedUsesEffectiveTime(t *testing.T) {
	// finalized_at = 0 falls back to created_at
	a := baseCommitment()
	a.ID, a.Status, a.FinalizedAt, a.CreatedAt = 1, models.StatusRefunded, 0, 900
	b := baseCommitment()
	b.ID, b.Status, b.FinalizedAt = 2, models.StatusCompleted, 500
	c := baseCommitment()
	c.ID, c.Status, c.FinalizedAt = 3, models.StatusCompleted, 700

	sorted := SortCommitments([]models.Commitment{a, b, c}, BucketCompleted)
	if got, want := ids(sorted), []uint64{1, 3, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("completed sort order = %v, want %v", got, want)
	}
}

func TestSortCommitmentsAllByNewestCreation(t *testing.T) {
	a := baseCommitment()
	a.ID, a.CreatedAt = 1, 100
	b := baseCommitment()
	b.ID, b.CreatedAt = 2, 300
	c := baseCommitment()
	c.ID, c.CreatedAt = 3, 300

	sorted := SortCommitments([]models.Commitment{a, b, c}, BucketAll)
	if got, want := ids(sorted), []uint64{3, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("all sort order = %v, want %v", got, want)
	}
}

func TestQueryPaginatesAndTracksNextCursor(t *testing.T) {
	list := make([]models.Commitment, 0, 4)
	for i, deadline := range []int64{200, 300, 400} {
		c := baseCommitment()
		c.ID, c.Deadline = uint64(i+1), deadline
		list = append(list, c)
	}
	completed := baseCommitment()
	completed.ID, completed.Status, completed.Deadline = 4, models.StatusCompleted, 500
	list = append(list, completed)

	page1 := Query(list, QueryInput{Status: BucketActive, Cursor: 0, Limit: 2})
	if page1.Total != 3 {
		t.Errorf("page1.Total = %d, want 3", page1.Total)
	}
	if page1.NextCursor == nil || *page1.NextCursor != 2 {
		t.Errorf("page1.NextCursor = %v, want 2", page1.NextCursor)
	}
	if got, want := ids(page1.Items), []uint64{1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("page1 items = %v, want %v", got, want)
	}

	page2 := Query(list, QueryInput{Status: BucketActive, Cursor: *page1.NextCursor, Limit: 2})
	if page2.Total != 3 {
		t.Errorf("page2.Total = %d, want 3", page2.Total)
	}
	if page2.NextCursor != nil {
		t.Errorf("page2.NextCursor = %v, want nil", *page2.NextCursor)
	}
	if got, want := ids(page2.Items), []uint64{3}; !reflect.DeepEqual(got, want) {
		t.Errorf("page2 items = %v, want %v", got, want)
	}
}

func TestQueryOwnershipFilter(t *testing.T) {
	a := baseCommitment()
	a.ID, a.Creator = 1, "erd1alice"
	b := baseCommitment()
	b.ID, b.Recipient = 2, "erd1alice"
	c := baseCommitment()
	c.ID = 3

	list := []models.Commitment{a, b, c}

	out := Query(list, QueryInput{Status: BucketAll, Mine: " erd1alice ", Cursor: 0, Limit: 10})
	if out.Total != 2 {
		t.Errorf("Total = %d, want 2", out.Total)
	}
	for _, item := range out.Items {
		if item.Creator != "erd1alice" && item.Recipient != "erd1alice" {
			t.Errorf("item %d does not involve the viewer", item.ID)
		}
	}

	// Blank mine means no ownership filter
	all := Query(list, QueryInput{Status: BucketAll, Mine: "   ", Cursor: 0, Limit: 10})
	if all.Total != 3 {
		t.Errorf("Total without filter = %d, want 3", all.Total)
	}
}

func TestQueryCursorBeyondEnd(t *testing.T) {
	list := []models.Commitment{baseCommitment()}
	out := Query(list, QueryInput{Status: BucketAll, Cursor: 10, Limit: 5})
	if len(out.Items) != 0 {
		t.Errorf("items = %v, want empty", ids(out.Items))
	}
	if out.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Total)
	}
	if out.NextCursor != nil {
		t.Errorf("NextCursor = %v, want nil", *out.NextCursor)
	}
}

func TestQueryIsIdempotent(t *testing.T) {
	list := make([]models.Commitment, 0, 6)
	for i := range 6 {
		c := baseCommitment()
		c.ID = uint64(i + 1)
		c.Deadline = int64(1000 - i*7)
		c.Status = models.Status(i % 5)
		list = append(list, c)
	}

	in := QueryInput{Status: BucketActive, Mine: "erd1creator", Cursor: 0, Limit: 3}
	first := Query(list, in)
	second := Query(list, in)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical queries over an unchanged collection differ")
	}
}

func TestDeriveEligibilityDeadlineBoundaries(t *testing.T) {
	active := baseCommitment()
	active.Deadline = 500

	atDeadline := DeriveEligibility(active, "erd1creator", 500)
	if !atDeadline.CanSubmitProof {
		t.Error("CanSubmitProof at deadline = false, want true")
	}
	if atDeadline.CanFinalize {
		t.Error("CanFinalize at deadline = true, want false")
	}
	if atDeadline.CanCancel {
		t.Error("CanCancel at deadline = true, want false")
	}

	pastDeadline := DeriveEligibility(active, "erd1creator", 501)
	if pastDeadline.CanSubmitProof {
		t.Error("CanSubmitProof past deadline = true, want false")
	}
	if !pastDeadline.CanFinalize {
		t.Error("CanFinalize past deadline = false, want true")
	}

	beforeDeadline := DeriveEligibility(active, "erd1creator", 499)
	if !beforeDeadline.CanCancel {
		t.Error("CanCancel before deadline = false, want true")
	}
}

func TestDeriveEligibilityClaimCooldownBoundary(t *testing.T) {
	failed := baseCommitment()
	failed.Status = models.StatusFailed
	failed.FinalizedAt = 1000
	failed.CooldownSeconds = 20

	early := DeriveEligibility(failed, "erd1recipient", 1019)
	if early.CanClaim {
		t.Error("CanClaim one second before cooldown elapses = true, want false")
	}

	onBoundary := DeriveEligibility(failed, "erd1recipient", 1020)
	if !onBoundary.CanClaim {
		t.Error("CanClaim exactly when cooldown elapses = false, want true")
	}

	// Unfinalized failed commitments cannot be claimed
	failed.FinalizedAt = 0
	unfinalized := DeriveEligibility(failed, "erd1recipient", 1020)
	if unfinalized.CanClaim {
		t.Error("CanClaim with finalized_at = 0 should be false")
	}
}

func TestDeriveEligibilityViewerIdentity(t *testing.T) {
	c := baseCommitment()

	tests := []struct {
		name        string
		viewer      string
		isCreator   bool
		isRecipient bool
	}{
		{"creator", "erd1creator", true, false},
		{"creator padded", "  erd1creator  ", true, false},
		{"recipient", "erd1recipient", false, true},
		{"stranger", "erd1stranger", false, false},
		{"empty", "", false, false},
		{"whitespace", "   ", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := DeriveEligibility(c, tt.viewer, 100)
			if e.IsCreator != tt.isCreator {
				t.Errorf("IsCreator = %v, want %v", e.IsCreator, tt.isCreator)
			}
			if e.IsRecipient != tt.isRecipient {
				t.Errorf("IsRecipient = %v, want %v", e.IsRecipient, tt.isRecipient)
			}
			if tt.viewer == "" || tt.viewer == "   " {
				if e.CanSubmitProof || e.CanClaim || e.CanCancel {
					t.Error("anonymous viewer has actor flags set")
				}
			}
		})
	}
}

func TestDeriveEligibilityFinalizeNeedsNoIdentity(t *testing.T) {
	c := baseCommitment()
	c.Status = models.StatusCompleted
	c.Deadline = 500

	e := DeriveEligibility(c, "", 501)
	if !e.CanFinalize {
		t.Error("CanFinalize should not require a viewer identity")
	}
}

func ids(items []models.Commitment) []uint64 {
	out := make([]uint64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
