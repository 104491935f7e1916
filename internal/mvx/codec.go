package mvx

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/commitment-fund/backend/internal/addr"
	"github.com/commitment-fund/backend/internal/models"
)

// Commitment field layout in the contract's nested encoding: fixed-width
// u64/u8 numbers big-endian, 32-byte addresses raw, BigUint and buffers
// behind a u32 big-endian length prefix.

var ErrTruncated = errors.New("truncated commitment encoding")

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, ErrTruncated
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *byteReader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *byteReader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) lengthPrefixed() ([]byte, error) {
	b, err := r.take(4)
	if err != nil {
		return nil, err
	}
	return r.take(int(binary.BigEndian.Uint32(b)))
}

// DecodeCommitment parses one nested-encoded Commitment struct as returned
// by the contract's view endpoints.
func DecodeCommitment(data []byte) (models.Commitment, error) {
	r := &byteReader{data: data}
	var c models.Commitment
	var err error

	if c.ID, err = r.u64(); err != nil {
		return c, fmt.Errorf("id: %w", err)
	}

	creatorKey, err := r.take(addr.PubKeyLen)
	if err != nil {
		return c, fmt.Errorf("creator: %w", err)
	}
	recipientKey, err := r.take(addr.PubKeyLen)
	if err != nil {
		return c, fmt.Errorf("recipient: %w", err)
	}

	amountBytes, err := r.lengthPrefixed()
	if err != nil {
		return c, fmt.Errorf("amount: %w", err)
	}
	c.Amount = new(big.Int).SetBytes(amountBytes).String()

	deadline, err := r.u64()
	if err != nil {
		return c, fmt.Errorf("deadline: %w", err)
	}
	cooldown, err := r.u64()
	if err != nil {
		return c, fmt.Errorf("cooldown_seconds: %w", err)
	}
	createdAt, err := r.u64()
	if err != nil {
		return c, fmt.Errorf("created_at: %w", err)
	}
	c.Deadline, c.CooldownSeconds, c.CreatedAt = int64(deadline), int64(cooldown), int64(createdAt)

	status, err := r.u8()
	if err != nil {
		return c, fmt.Errorf("status: %w", err)
	}
	c.Status = models.Status(status)

	title, err := r.lengthPrefixed()
	if err != nil {
		return c, fmt.Errorf("title: %w", err)
	}
	c.Title = string(title)

	proofURL, err := r.lengthPrefixed()
	if err != nil {
		return c, fmt.Errorf("proof_url: %w", err)
	}
	c.ProofURL = string(proofURL)

	proofHash, err := r.lengthPrefixed()
	if err != nil {
		return c, fmt.Errorf("proof_hash: %w", err)
	}
	c.ProofHash = hex.EncodeToString(proofHash)

	proofSubmittedAt, err := r.u64()
	if err != nil {
		return c, fmt.Errorf("proof_submitted_at: %w", err)
	}
	finalizedAt, err := r.u64()
	if err != nil {
		return c, fmt.Errorf("finalized_at: %w", err)
	}
	c.ProofSubmittedAt, c.FinalizedAt = int64(proofSubmittedAt), int64(finalizedAt)

	if r.pos != len(r.data) {
		return c, fmt.Errorf("commitment %d: %d trailing bytes", c.ID, len(r.data)-r.pos)
	}

	if c.Creator, err = addr.Encode(creatorKey); err != nil {
		return c, fmt.Errorf("creator: %w", err)
	}
	if c.Recipient, err = addr.Encode(recipientKey); err != nil {
		return c, fmt.Errorf("recipient: %w", err)
	}

	return c, nil
}

// decodeU64 parses a top-encoded u64: minimal big-endian bytes, empty for
// zero.
func decodeU64(data []byte) (uint64, error) {
	if len(data) > 8 {
		return 0, fmt.Errorf("u64 encoding is %d bytes", len(data))
	}
	return new(big.Int).SetBytes(data).Uint64(), nil
}
