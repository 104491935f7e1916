// Package mvx talks to a MultiversX gateway: read-only VM queries against
// the commitment fund contract, plus building the unsigned transaction
// payloads a connected wallet signs and broadcasts.
package mvx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/commitment-fund/backend/internal/models"
	"go.uber.org/zap"
)

const (
	// maxFetchTotal caps how many commitments one FetchAll pass reads.
	maxFetchTotal = 5000
	// batchSize keeps each get_commitments_batch query small enough for
	// the gateway's response limits.
	batchSize = 40
)

var ErrNotFound = errors.New("commitment not found")

// VMError is a non-ok returnCode from a gateway VM query.
type VMError struct {
	Func    string
	Code    string
	Message string
}

func (e *VMError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vm query %s: %s (%s)", e.Func, e.Message, e.Code)
	}
	return fmt.Sprintf("vm query %s: %s", e.Func, e.Code)
}

type Client struct {
	gatewayURL string
	contract   string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(gatewayURL, contractAddress string, log *zap.Logger) *Client {
	return &Client{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		contract:   contractAddress,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type vmQueryRequest struct {
	SCAddress string   `json:"scAddress"`
	FuncName  string   `json:"funcName"`
	Args      []string `json:"args"`
}

type vmQueryResponse struct {
	Data struct {
		Data struct {
			ReturnData    []string `json:"returnData"`
			ReturnCode    string   `json:"returnCode"`
			ReturnMessage string   `json:"returnMessage"`
		} `json:"data"`
	} `json:"data"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

// queryValues runs one VM query and returns the decoded returnData entries.
// Args are hex-encoded top-encoded values.
func (c *Client) queryValues(ctx context.Context, funcName string, args []string) ([][]byte, error) {
	if args == nil {
		args = []string{}
	}
	body, err := json.Marshal(vmQueryRequest{SCAddress: c.contract, FuncName: funcName, Args: args})
	if err != nil {
		return nil, err
	}

	url := c.gatewayURL + "/vm-values/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed vmQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("gateway error: %s", parsed.Error)
	}

	result := parsed.Data.Data
	if result.ReturnCode != "ok" {
		return nil, &VMError{Func: funcName, Code: result.ReturnCode, Message: result.ReturnMessage}
	}

	values := make([][]byte, 0, len(result.ReturnData))
	for _, entry := range result.ReturnData {
		decoded, err := base64.StdEncoding.DecodeString(entry)
		if err != nil {
			return nil, fmt.Errorf("vm query %s: bad returnData: %w", funcName, err)
		}
		values = append(values, decoded)
	}
	return values, nil
}

func (c *Client) GetTotalIDs(ctx context.Context) (uint64, error) {
	values, err := c.queryValues(ctx, "get_total_ids", nil)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	return decodeU64(values[0])
}

// GetIDsPage returns up to limit commitment ids starting at the zero-based
// offset. Each multi-value entry arrives as its own returnData element.
func (c *Client) GetIDsPage(ctx context.Context, start, limit uint64) ([]uint64, error) {
	values, err := c.queryValues(ctx, "get_ids_page", []string{encodeUint(start), encodeUint(limit)})
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		id, err := decodeU64(v)
		if err != nil {
			return nil, fmt.Errorf("get_ids_page: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) GetCommitment(ctx context.Context, id uint64) (*models.Commitment, error) {
	values, err := c.queryValues(ctx, "get_commitment", []string{encodeUint(id)})
	if err != nil {
		var vmErr *VMError
		if errors.As(err, &vmErr) && strings.Contains(strings.ToLower(vmErr.Message), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrNotFound
	}

	c2, err := DecodeCommitment(values[0])
	if err != nil {
		return nil, err
	}
	return &c2, nil
}

func (c *Client) GetCommitmentsBatch(ctx context.Context, ids []uint64) ([]models.Commitment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, encodeUint(id))
	}

	values, err := c.queryValues(ctx, "get_commitments_batch", args)
	if err != nil {
		return nil, err
	}

	items := make([]models.Commitment, 0, len(values))
	for _, v := range values {
		item, err := DecodeCommitment(v)
		if err != nil {
			return nil, fmt.Errorf("get_commitments_batch: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// FetchAll reads the full commitment collection: total count, then the id
// list, then the records in batches.
func (c *Client) FetchAll(ctx context.Context) ([]models.Commitment, error) {
	total, err := c.GetTotalIDs(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}
	if total > maxFetchTotal {
		c.log.Warn("commitment count exceeds fetch cap",
			zap.Uint64("total", total),
			zap.Int("cap", maxFetchTotal),
		)
		total = maxFetchTotal
	}

	ids, err := c.GetIDsPage(ctx, 0, total)
	if err != nil {
		return nil, err
	}

	result := make([]models.Commitment, 0, len(ids))
	for i := 0; i < len(ids); i += batchSize {
		chunk := ids[i:min(i+batchSize, len(ids))]
		items, err := c.GetCommitmentsBatch(ctx, chunk)
		if err != nil {
			return nil, err
		}
		result = append(result, items...)
	}
	return result, nil
}

// encodeUint hex-encodes a number the way the VM expects arguments:
// minimal big-endian bytes, empty for zero.
func encodeUint(v uint64) string {
	if v == 0 {
		return ""
	}
	var buf [8]byte
	n := 8
	for v > 0 {
		n--
		buf[n] = byte(v)
		v >>= 8
	}
	return hex.EncodeToString(buf[n:])
}
