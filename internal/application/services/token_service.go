package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tonwork/jetton-engine/internal/config"
	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
	"github.com/tonwork/jetton-engine/internal/infrastructure/cache"
	"github.com/tonwork/jetton-engine/internal/infrastructure/database"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
	"github.com/tonwork/jetton-engine/internal/infrastructure/tonapi"
)

// MetadataSource fetches jetton master metadata
type MetadataSource interface {
	GetJettonInfo(ctx context.Context, network entities.Network, address string) (*tonapi.JettonInfo, error)
}

// TokenService maintains the token catalog: cached lookups backed by the
// database, with on-demand metadata fetch for unknown tokens
type TokenService struct {
	catalog repositories.TokenCatalog
	source  MetadataSource
	cache   *cache.RedisCache
	feeCfg  config.FeesConfig
	logger  *zap.Logger
}

// NewTokenService creates a new token catalog service
func NewTokenService(
	catalog repositories.TokenCatalog,
	source MetadataSource,
	cache *cache.RedisCache,
	feeCfg config.FeesConfig,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		catalog: catalog,
		source:  source,
		cache:   cache,
		feeCfg:  feeCfg,
		logger:  logger,
	}
}

// GetByAddress returns the token for a master address, fetching and storing
// its metadata when the catalog does not know it yet
func (s *TokenService) GetByAddress(ctx context.Context, network entities.Network, address string) (*entities.Token, error) {
	tokenAddress, err := ton.ToBase64Address(address, true, network)
	if err != nil {
		return nil, fmt.Errorf("bad token address: %w", err)
	}

	cacheKey := fmt.Sprintf("token:%s", tokenAddress)

	var cached entities.Token
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	token, err := s.catalog.GetByAddress(ctx, tokenAddress)
	if errors.Is(err, database.ErrTokenNotFound) {
		token, err = s.FetchToken(ctx, network, tokenAddress)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cacheKey, token, 5*time.Minute); err != nil {
			s.logger.Warn("Failed to cache token", zap.Error(err))
		}
	}

	return token, nil
}

// FetchToken fetches jetton metadata, builds the token and stores it
func (s *TokenService) FetchToken(ctx context.Context, network entities.Network, tokenAddress string) (*entities.Token, error) {
	info, err := s.source.GetJettonInfo(ctx, network, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata: %w", err)
	}

	token := entities.TokenFromMetadata(tokenAddress, info.Metadata)
	token.IsTiny = s.feeCfg.IsTinySlug(token.Slug)

	if err := s.catalog.Upsert(ctx, &token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	return &token, nil
}

// RefreshAll re-fetches metadata for every cataloged token
func (s *TokenService) RefreshAll(ctx context.Context, network entities.Network) error {
	tokens, err := s.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tokens: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := range tokens {
		token := tokens[i]
		g.Go(func() error {
			if _, err := s.FetchToken(gCtx, network, token.TokenAddress); err != nil {
				s.logger.Warn("Failed to refresh token",
					zap.String("slug", token.Slug),
					zap.Error(err),
				)
				return nil
			}
			if s.cache != nil {
				_ = s.cache.Delete(gCtx, fmt.Sprintf("token:%s", token.TokenAddress))
			}
			return nil
		})
	}

	return g.Wait()
}
