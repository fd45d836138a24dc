package ton

import (
	"context"
	"fmt"

	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"
	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/config"
	"github.com/tonwork/jetton-engine/internal/domain/entities"
)

// Client answers ledger queries over lite-servers, one connection pool per
// network. It implements repositories.LedgerGateway.
type Client struct {
	mainnet ton.APIClientWrapped
	testnet ton.APIClientWrapped
	logger  *zap.Logger
}

// NewClient connects to the configured lite-server pools. The testnet pool
// is optional; testnet queries fail when it is not configured.
func NewClient(ctx context.Context, cfg config.TonConfig, logger *zap.Logger) (*Client, error) {
	mainnet, err := connect(ctx, cfg.MainnetConfigURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mainnet lite-servers: %w", err)
	}

	var testnet ton.APIClientWrapped
	if cfg.TestnetConfigURL != "" {
		testnet, err = connect(ctx, cfg.TestnetConfigURL)
		if err != nil {
			logger.Warn("Failed to connect to testnet lite-servers, testnet queries disabled",
				zap.Error(err),
			)
		}
	}

	logger.Info("Connected to TON lite-servers",
		zap.String("mainnet_config", cfg.MainnetConfigURL),
		zap.Bool("testnet", testnet != nil),
	)

	return &Client{
		mainnet: mainnet,
		testnet: testnet,
		logger:  logger,
	}, nil
}

func connect(ctx context.Context, configURL string) (ton.APIClientWrapped, error) {
	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, err
	}
	return ton.NewAPIClient(pool, ton.ProofCheckPolicyFast).WithRetry(), nil
}

// HealthCheck probes the mainnet pool by fetching the current masterchain
// block. A node that cannot see the masterchain cannot answer any query.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.mainnet.CurrentMasterchainInfo(ctx); err != nil {
		return fmt.Errorf("masterchain unreachable: %w", err)
	}
	return nil
}

func (c *Client) api(network entities.Network) (ton.APIClientWrapped, error) {
	if network == entities.NetworkTestnet {
		if c.testnet == nil {
			return nil, fmt.Errorf("testnet lite-servers are not configured")
		}
		return c.testnet, nil
	}
	return c.mainnet, nil
}

// ResolveWalletAddress derives the owner's jetton wallet address via the
// master contract's get_wallet_address method
func (c *Client) ResolveWalletAddress(ctx context.Context, network entities.Network, owner, tokenAddress string) (string, error) {
	api, err := c.api(network)
	if err != nil {
		return "", err
	}

	ownerAddr, err := ParseAddress(owner)
	if err != nil {
		return "", fmt.Errorf("failed to parse owner address: %w", err)
	}
	masterAddr, err := ParseAddress(tokenAddress)
	if err != nil {
		return "", fmt.Errorf("failed to parse token address: %w", err)
	}

	block, err := api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get masterchain info: %w", err)
	}

	res, err := api.RunGetMethod(ctx, block, masterAddr, "get_wallet_address",
		cell.BeginCell().MustStoreAddr(ownerAddr).EndCell().BeginParse())
	if err != nil {
		return "", fmt.Errorf("get_wallet_address failed: %w", err)
	}

	s, err := res.Slice(0)
	if err != nil {
		return "", fmt.Errorf("unexpected get_wallet_address result: %w", err)
	}
	walletAddr, err := s.LoadAddr()
	if err != nil {
		return "", fmt.Errorf("unexpected get_wallet_address result: %w", err)
	}

	return FriendlyAddress(walletAddr, true, network), nil
}

// ResolveTokenAddress returns the master address a jetton wallet claims to
// belong to, from its get_wallet_data method
func (c *Client) ResolveTokenAddress(ctx context.Context, network entities.Network, walletAddress string) (string, error) {
	api, err := c.api(network)
	if err != nil {
		return "", err
	}

	walletAddr, err := ParseAddress(walletAddress)
	if err != nil {
		return "", fmt.Errorf("failed to parse wallet address: %w", err)
	}

	block, err := api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get masterchain info: %w", err)
	}

	res, err := api.RunGetMethod(ctx, block, walletAddr, "get_wallet_data")
	if err != nil {
		return "", fmt.Errorf("get_wallet_data failed: %w", err)
	}

	// get_wallet_data stack: balance, owner, jetton master, wallet code
	s, err := res.Slice(2)
	if err != nil {
		return "", fmt.Errorf("unexpected get_wallet_data result: %w", err)
	}
	masterAddr, err := s.LoadAddr()
	if err != nil {
		return "", fmt.Errorf("unexpected get_wallet_data result: %w", err)
	}

	return FriendlyAddress(masterAddr, true, network), nil
}

// IsContractActive reports whether the account is deployed with active state
func (c *Client) IsContractActive(ctx context.Context, network entities.Network, addr string) (bool, error) {
	api, err := c.api(network)
	if err != nil {
		return false, err
	}

	a, err := ParseAddress(addr)
	if err != nil {
		return false, fmt.Errorf("failed to parse address: %w", err)
	}

	block, err := api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get masterchain info: %w", err)
	}

	acc, err := api.GetAccount(ctx, block, a)
	if err != nil {
		return false, fmt.Errorf("failed to get account: %w", err)
	}

	return acc.IsActive && acc.State != nil && acc.State.Status == tlb.AccountStatusActive, nil
}

// IsWalletClaimed runs the mintless jetton wallet's is_claimed get-method
func (c *Client) IsWalletClaimed(ctx context.Context, network entities.Network, walletAddress string) (bool, error) {
	api, err := c.api(network)
	if err != nil {
		return false, err
	}

	walletAddr, err := ParseAddress(walletAddress)
	if err != nil {
		return false, fmt.Errorf("failed to parse wallet address: %w", err)
	}

	block, err := api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get masterchain info: %w", err)
	}

	res, err := api.RunGetMethod(ctx, block, walletAddr, "is_claimed")
	if err != nil {
		return false, fmt.Errorf("is_claimed failed: %w", err)
	}

	claimed, err := res.Int(0)
	if err != nil {
		return false, fmt.Errorf("unexpected is_claimed result: %w", err)
	}

	return claimed.Sign() != 0, nil
}
