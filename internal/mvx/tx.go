package mvx

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/commitment-fund/backend/internal/addr"
	"github.com/commitment-fund/backend/internal/commitments"
)

// Gas limits per endpoint, matching what the dApp attached to each call.
const (
	gasCreateCommitment = 30_000_000
	gasDefault          = 15_000_000
)

// MaxProofURLBytes mirrors the contract's proof URL cap.
const MaxProofURLBytes = 512

var ErrInvalidProofURL = errors.New("proof URL must be between 1 and 512 bytes")

// TxPayload is an unsigned transaction for a connected wallet to sign and
// broadcast. Data carries the readable call-data form (func@hexarg@...).
type TxPayload struct {
	Value    string `json:"value"`
	Data     string `json:"data"`
	Receiver string `json:"receiver"`
	GasLimit uint64 `json:"gas_limit"`
	ChainID  string `json:"chain_id"`
}

// TxBuilder produces payloads for the contract's five endpoints. Each
// endpoint has its own typed constructor; there is no dispatch by name.
type TxBuilder struct {
	contract string
	chainID  string
}

func NewTxBuilder(contractAddress, chainID string) *TxBuilder {
	return &TxBuilder{contract: contractAddress, chainID: chainID}
}

// CreateCommitment stakes the validated amount on a new commitment. The
// cooldown argument is omitted entirely when the contract default applies.
func (b *TxBuilder) CreateCommitment(v commitments.ValidatedCreate) (TxPayload, error) {
	recipientKey, err := addr.Decode(v.Recipient)
	if err != nil {
		return TxPayload{}, fmt.Errorf("recipient: %w", err)
	}

	args := []string{
		hex.EncodeToString([]byte(v.Title)),
		hex.EncodeToString(recipientKey),
		encodeUint(uint64(v.Deadline)),
	}
	if v.CooldownSeconds != nil {
		args = append(args, encodeUint(uint64(*v.CooldownSeconds)))
	}

	return TxPayload{
		Value:    v.AmountWei,
		Data:     callData("create_commitment", args...),
		Receiver: b.contract,
		GasLimit: gasCreateCommitment,
		ChainID:  b.chainID,
	}, nil
}

func (b *TxBuilder) SubmitProof(id uint64, proofURL string) (TxPayload, error) {
	if n := len(proofURL); n == 0 || n > MaxProofURLBytes {
		return TxPayload{}, ErrInvalidProofURL
	}
	return b.payload("submit_proof", gasDefault, encodeUint(id), hex.EncodeToString([]byte(proofURL))), nil
}

func (b *TxBuilder) Finalize(id uint64) TxPayload {
	return b.payload("finalize", gasDefault, encodeUint(id))
}

func (b *TxBuilder) Claim(id uint64) TxPayload {
	return b.payload("claim", gasDefault, encodeUint(id))
}

func (b *TxBuilder) Cancel(id uint64) TxPayload {
	return b.payload("cancel", gasDefault, encodeUint(id))
}

func (b *TxBuilder) payload(endpoint string, gasLimit uint64, args ...string) TxPayload {
	return TxPayload{
		Value:    "0",
		Data:     callData(endpoint, args...),
		Receiver: b.contract,
		GasLimit: gasLimit,
		ChainID:  b.chainID,
	}
}

func callData(endpoint string, args ...string) string {
	if len(args) == 0 {
		return endpoint
	}
	return endpoint + "@" + strings.Join(args, "@")
}
