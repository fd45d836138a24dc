package services

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/config"
	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
	"github.com/tonwork/jetton-engine/internal/infrastructure/tonapi"
)

// BalanceSource fetches raw per-account jetton balance records
type BalanceSource interface {
	GetJettonBalances(ctx context.Context, network entities.Network, account string) ([]tonapi.JettonBalance, error)
}

// BalanceService turns raw balance records into typed balance entries
type BalanceService struct {
	source  BalanceSource
	catalog repositories.TokenCatalog
	feeCfg  config.FeesConfig
	logger  *zap.Logger
}

// NewBalanceService creates a new balance service. The catalog is optional;
// when present, tokens discovered in balances are upserted into it.
func NewBalanceService(
	source BalanceSource,
	catalog repositories.TokenCatalog,
	feeCfg config.FeesConfig,
	logger *zap.Logger,
) *BalanceService {
	return &BalanceService{
		source:  source,
		catalog: catalog,
		feeCfg:  feeCfg,
		logger:  logger,
	}
}

// FetchBalances fetches and parses all jetton balances of an account
func (s *BalanceService) FetchBalances(ctx context.Context, network entities.Network, account string) ([]entities.TokenBalance, error) {
	raw, err := s.source.GetJettonBalances(ctx, network, account)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}

	balances := s.ParseBalances(network, raw)

	if s.catalog != nil {
		for i := range balances {
			if err := s.catalog.Upsert(ctx, &balances[i].Token); err != nil {
				s.logger.Warn("Failed to upsert token from balance",
					zap.String("slug", balances[i].Slug),
					zap.Error(err),
				)
			}
		}
	}

	return balances, nil
}

// ParseBalances parses raw balance records. A malformed record never aborts
// the batch: it is logged at debug level and dropped.
func (s *BalanceService) ParseBalances(network entities.Network, raw []tonapi.JettonBalance) []entities.TokenBalance {
	balances := make([]entities.TokenBalance, 0, len(raw))

	for i := range raw {
		parsed := s.parseBalance(network, &raw[i])
		if parsed == nil {
			continue
		}
		balances = append(balances, *parsed)
	}

	return balances
}

func (s *BalanceService) parseBalance(network entities.Network, raw *tonapi.JettonBalance) *entities.TokenBalance {
	if raw.Jetton == nil {
		return nil
	}

	tokenAddress, err := ton.ToBase64Address(raw.Jetton.Address, true, network)
	if err != nil {
		s.logger.Debug("Skipping balance with bad token address",
			zap.String("address", raw.Jetton.Address),
			zap.Error(err),
		)
		return nil
	}

	balance, ok := new(big.Int).SetString(raw.Balance, 10)
	if !ok {
		s.logger.Debug("Skipping balance with bad amount",
			zap.String("token", tokenAddress),
			zap.String("balance", raw.Balance),
		)
		return nil
	}

	walletAddress, err := ton.ToBase64Address(raw.WalletAddress.Address, false, network)
	if err != nil {
		s.logger.Debug("Skipping balance with bad wallet address",
			zap.String("address", raw.WalletAddress.Address),
			zap.Error(err),
		)
		return nil
	}

	token := entities.TokenFromMetadata(tokenAddress, raw.Jetton.Metadata())
	token.IsTiny = s.feeCfg.IsTinySlug(token.Slug)

	return &entities.TokenBalance{
		Slug:               token.Slug,
		Balance:            balance,
		Token:              token,
		TokenWalletAddress: walletAddress,
	}
}
