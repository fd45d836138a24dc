package tonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/config"
	"github.com/tonwork/jetton-engine/internal/domain/entities"
)

// Client talks to the TON HTTP indexer API for balances and jetton metadata
type Client struct {
	mainnetBase string
	testnetBase string
	http        *http.Client
	logger      *zap.Logger
}

// NewClient creates a new API client
func NewClient(cfg config.TonAPIConfig, logger *zap.Logger) *Client {
	return &Client{
		mainnetBase: cfg.MainnetBaseURL,
		testnetBase: cfg.TestnetBaseURL,
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		logger:      logger,
	}
}

func (c *Client) base(network entities.Network) string {
	if network == entities.NetworkTestnet {
		return c.testnetBase
	}
	return c.mainnetBase
}

// GetJettonBalances returns all raw jetton balance records of an account
func (c *Client) GetJettonBalances(ctx context.Context, network entities.Network, account string) ([]JettonBalance, error) {
	endpoint := fmt.Sprintf("%s/v2/accounts/%s/jettons", c.base(network), url.PathEscape(account))

	var res jettonBalancesResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch jetton balances: %w", err)
	}

	return res.Balances, nil
}

// GetJettonInfo returns the full metadata record of a jetton master
func (c *Client) GetJettonInfo(ctx context.Context, network entities.Network, address string) (*JettonInfo, error) {
	endpoint := fmt.Sprintf("%s/v2/jettons/%s", c.base(network), url.PathEscape(address))

	var info JettonInfo
	if err := c.getJSON(ctx, endpoint, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch jetton info: %w", err)
	}

	return &info, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}
