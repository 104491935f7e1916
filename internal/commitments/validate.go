package commitments

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/commitment-fund/backend/internal/denom"
)

const (
	// MinDeadlineBufferSeconds is how far past now a deadline must sit,
	// strictly — the contract rejects deadline <= now + buffer.
	MinDeadlineBufferSeconds = 300
	MaxTitleBytes            = 64

	addressPrefix = "erd1"
)

var (
	ErrInvalidTitle     = errors.New("title must be between 1 and 64 bytes")
	ErrInvalidDeadline  = errors.New("invalid deadline")
	ErrDeadlineTooSoon  = errors.New("deadline must be at least 5 minutes in the future")
	ErrInvalidRecipient = errors.New("recipient must be a valid bech32 address")
	ErrZeroAmount       = errors.New("amount must be greater than 0 EGLD")
	ErrInvalidCooldown  = errors.New("cooldown must be a positive number of seconds")
)

// CreateInput carries the raw, user-supplied creation form values. Now is
// the current unix time, supplied by the caller to keep validation pure.
type CreateInput struct {
	Title             string
	Amount            string
	DeadlineInput     string
	Recipient         string
	UseCustomCooldown bool
	CooldownInput     string
	Now               int64
}

// ValidatedCreate is the normalized creation request: trimmed title, wei
// amount, unix deadline, and an optional cooldown (nil means use the
// contract default).
type ValidatedCreate struct {
	Title           string `json:"title"`
	AmountWei       string `json:"amount_wei"`
	Deadline        int64  `json:"deadline"`
	Recipient       string `json:"recipient"`
	CooldownSeconds *int64 `json:"cooldown_seconds,omitempty"`
}

// deadlineLayouts cover RFC3339 plus the formats an HTML datetime-local
// input produces. Layouts without a zone are read as UTC.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ValidateCreateInput checks the raw input in a fixed order — title,
// deadline, recipient, amount, cooldown — and fails with the sentinel for
// the first violated rule. Amount failures surface the denom package
// sentinels (ErrInvalidAmount, ErrTooManyDecimals, ErrNegativeAmount).
func ValidateCreateInput(in CreateInput) (ValidatedCreate, error) {
	title := strings.TrimSpace(in.Title)
	if len(title) == 0 || len(title) > MaxTitleBytes {
		return ValidatedCreate{}, ErrInvalidTitle
	}

	deadline, err := parseDeadline(in.DeadlineInput)
	if err != nil {
		return ValidatedCreate{}, err
	}
	if deadline <= in.Now+MinDeadlineBufferSeconds {
		return ValidatedCreate{}, ErrDeadlineTooSoon
	}

	recipient := strings.TrimSpace(in.Recipient)
	if !strings.HasPrefix(recipient, addressPrefix) {
		return ValidatedCreate{}, ErrInvalidRecipient
	}

	amountWei, err := denom.EgldToWei(in.Amount)
	if err != nil {
		return ValidatedCreate{}, err
	}
	if amountWei == "0" {
		return ValidatedCreate{}, ErrZeroAmount
	}

	out := ValidatedCreate{
		Title:     title,
		AmountWei: amountWei,
		Deadline:  deadline,
		Recipient: recipient,
	}

	if in.UseCustomCooldown {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(in.CooldownInput), 64)
		if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) || parsed <= 0 {
			return ValidatedCreate{}, ErrInvalidCooldown
		}
		// int64(parsed) is undefined for out-of-range floats, so the
		// bound must be checked before converting.
		if parsed >= math.MaxInt64 {
			return ValidatedCreate{}, ErrInvalidCooldown
		}
		// Truncates toward zero; sub-second inputs become an explicit
		// zero-second cooldown.
		cooldown := int64(parsed)
		out.CooldownSeconds = &cooldown
	}

	return out, nil
}

func parseDeadline(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidDeadline
	}

	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}

	// Bare unix seconds are accepted too.
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil && secs > 0 {
		return secs, nil
	}

	return 0, ErrInvalidDeadline
}
