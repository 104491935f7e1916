package mvx

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/commitment-fund/backend/internal/addr"
	"github.com/commitment-fund/backend/internal/models"
)

type encoder struct {
	data []byte
}

func (e *encoder) u64(v uint64) *encoder {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.data = append(e.data, b[:]...)
	return e
}

func (e *encoder) u8(v byte) *encoder {
	e.data = append(e.data, v)
	return e
}

func (e *encoder) raw(b []byte) *encoder {
	e.data = append(e.data, b...)
	return e
}

func (e *encoder) lengthPrefixed(b []byte) *encoder {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	e.data = append(e.data, l[:]...)
	e.data = append(e.data, b...)
	return e
}

func testKey(fill byte) []byte {
	key := make([]byte, addr.PubKeyLen)
	for i := range key {
		key[i] = fill
	}
	return key
}

func encodedCommitment() []byte {
	e := &encoder{}
	e.u64(7).
		raw(testKey(0xAA)).
		raw(testKey(0xBB)).
		lengthPrefixed([]byte{0x0D, 0xE0, 0xB6, 0xB3, 0xA7, 0x64, 0x00, 0x00}). // 1 EGLD
		u64(1700000000).       // deadline
		u64(86400).            // cooldown_seconds
		u64(1699000000).       // created_at
		u8(1).                 // status: completed
		lengthPrefixed([]byte("Ship feature")).
		lengthPrefixed([]byte("https://example.com/proof")).
		lengthPrefixed([]byte{0xDE, 0xAD, 0xBE, 0xEF}).
		u64(1699500000). // proof_submitted_at
		u64(0)           // finalized_at
	return e.data
}

func TestDecodeCommitment(t *testing.T) {
	c, err := DecodeCommitment(encodedCommitment())
	if err != nil {
		t.Fatalf("DecodeCommitment() error = %v", err)
	}

	if c.ID != 7 {
		t.Errorf("ID = %d, want 7", c.ID)
	}
	wantCreator, _ := addr.Encode(testKey(0xAA))
	if c.Creator != wantCreator {
		t.Errorf("Creator = %q, want %q", c.Creator, wantCreator)
	}
	wantRecipient, _ := addr.Encode(testKey(0xBB))
	if c.Recipient != wantRecipient {
		t.Errorf("Recipient = %q, want %q", c.Recipient, wantRecipient)
	}
	if c.Amount != "1000000000000000000" {
		t.Errorf("Amount = %q, want 1 EGLD in wei", c.Amount)
	}
	if c.Deadline != 1700000000 {
		t.Errorf("Deadline = %d", c.Deadline)
	}
	if c.CooldownSeconds != 86400 {
		t.Errorf("CooldownSeconds = %d", c.CooldownSeconds)
	}
	if c.CreatedAt != 1699000000 {
		t.Errorf("CreatedAt = %d", c.CreatedAt)
	}
	if c.Status != models.StatusCompleted {
		t.Errorf("Status = %v, want completed", c.Status)
	}
	if c.Title != "Ship feature" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.ProofURL != "https://example.com/proof" {
		t.Errorf("ProofURL = %q", c.ProofURL)
	}
	if c.ProofHash != "deadbeef" {
		t.Errorf("ProofHash = %q, want deadbeef", c.ProofHash)
	}
	if c.ProofSubmittedAt != 1699500000 {
		t.Errorf("ProofSubmittedAt = %d", c.ProofSubmittedAt)
	}
	if c.FinalizedAt != 0 {
		t.Errorf("FinalizedAt = %d, want 0", c.FinalizedAt)
	}
}

func TestDecodeCommitmentZeroAmount(t *testing.T) {
	e := &encoder{}
	e.u64(1).
		raw(testKey(0x01)).
		raw(testKey(0x02)).
		lengthPrefixed(nil). // BigUint zero encodes as empty bytes
		u64(100).u64(60).u64(50).
		u8(0).
		lengthPrefixed([]byte("t")).
		lengthPrefixed(nil).
		lengthPrefixed(nil).
		u64(0).u64(0)

	c, err := DecodeCommitment(e.data)
	if err != nil {
		t.Fatalf("DecodeCommitment() error = %v", err)
	}
	if c.Amount != "0" {
		t.Errorf("Amount = %q, want 0", c.Amount)
	}
	if c.ProofURL != "" || c.ProofHash != "" {
		t.Errorf("proof fields = (%q, %q), want empty", c.ProofURL, c.ProofHash)
	}
}

func TestDecodeCommitmentTruncated(t *testing.T) {
	data := encodedCommitment()
	for _, cut := range []int{0, 5, 8, 40, 80, len(data) - 1} {
		if _, err := DecodeCommitment(data[:cut]); !errors.Is(err, ErrTruncated) {
			t.Errorf("DecodeCommitment(%d bytes) error = %v, want ErrTruncated", cut, err)
		}
	}
}

func TestDecodeCommitmentTrailingBytes(t *testing.T) {
	data := append(encodedCommitment(), 0x00)
	if _, err := DecodeCommitment(data); err == nil {
		t.Error("DecodeCommitment() with trailing bytes should fail")
	}
}

func TestDecodeU64(t *testing.T) {
	tests := []struct {
		data     []byte
		expected uint64
	}{
		{nil, 0},
		{[]byte{}, 0},
		{[]byte{0x07}, 7},
		{[]byte{0x01, 0x00}, 256},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, ^uint64(0)},
	}

	for _, tt := range tests {
		got, err := decodeU64(tt.data)
		if err != nil {
			t.Fatalf("decodeU64(%x) error = %v", tt.data, err)
		}
		if got != tt.expected {
			t.Errorf("decodeU64(%x) = %d, want %d", tt.data, got, tt.expected)
		}
	}

	if _, err := decodeU64(make([]byte, 9)); err == nil {
		t.Error("decodeU64(9 bytes) should fail")
	}
}
