package repositories

import (
	"context"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
)

// LedgerGateway is the read-only view of the TON ledger the engine needs.
// Errors from these calls propagate to callers unchanged; the engine adds no
// retry or suppression on top of the gateway's own policy.
type LedgerGateway interface {
	// ResolveWalletAddress derives the owner's jetton wallet address for a
	// token via the master's get_wallet_address method
	ResolveWalletAddress(ctx context.Context, network entities.Network, owner, tokenAddress string) (string, error)

	// ResolveTokenAddress returns the master address a jetton wallet reports
	// via get_wallet_data. Used for the anti-spoofing check.
	ResolveTokenAddress(ctx context.Context, network entities.Network, walletAddress string) (string, error)

	// IsContractActive reports whether an account is deployed and active
	IsContractActive(ctx context.Context, network entities.Network, addr string) (bool, error)

	// IsWalletClaimed runs the jetton wallet's read-only is_claimed method
	IsWalletClaimed(ctx context.Context, network entities.Network, walletAddress string) (bool, error)
}
