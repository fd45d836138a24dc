// Package claimapi fetches off-chain mintless claim records. Fetch failures
// are returned to the caller as errors; the mintless resolver decides that
// they mean "no claim data" rather than hiding that policy here.
package claimapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/config"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
)

// Client fetches claim records from a token's custom-payload API
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a new claim API client
func NewClient(cfg config.ClaimConfig, logger *zap.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		logger: logger,
	}
}

type claimResponse struct {
	CustomPayload  string `json:"custom_payload"`
	StateInit      string `json:"state_init"`
	CompressedInfo struct {
		Amount    string `json:"amount"`
		StartFrom string `json:"start_from"`
		ExpiredAt string `json:"expired_at"`
	} `json:"compressed_info"`
}

// GetWalletClaim fetches the claim record for one owner. A missing record
// returns (nil, nil); transport and decode failures return an error.
func (c *Client) GetWalletClaim(ctx context.Context, apiURL, rawOwnerAddress string) (*repositories.ClaimRecord, error) {
	endpoint := strings.TrimSuffix(apiURL, "/") + "/wallet/" + rawOwnerAddress

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claim record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected claim API status %d", resp.StatusCode)
	}

	var body claimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode claim record: %w", err)
	}

	amount, ok := new(big.Int).SetString(body.CompressedInfo.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("bad claim amount %q", body.CompressedInfo.Amount)
	}

	record := &repositories.ClaimRecord{
		CustomPayload: body.CustomPayload,
		StateInit:     body.StateInit,
		Amount:        amount,
	}

	if record.StartFrom, err = parseUnix(body.CompressedInfo.StartFrom); err != nil {
		return nil, fmt.Errorf("bad claim start_from: %w", err)
	}
	if record.ExpiredAt, err = parseUnix(body.CompressedInfo.ExpiredAt); err != nil {
		return nil, fmt.Errorf("bad claim expired_at: %w", err)
	}

	return record, nil
}

func parseUnix(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).UTC(), nil
}
