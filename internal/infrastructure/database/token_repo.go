package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
)

// ErrTokenNotFound is returned when a token is not in the catalog
var ErrTokenNotFound = errors.New("token not found")

// Ensure TokenRepo implements TokenCatalog
var _ repositories.TokenCatalog = (*TokenRepo)(nil)

// TokenRepo implements TokenCatalog using PostgreSQL
type TokenRepo struct {
	db *sqlx.DB
}

// NewTokenRepo creates a new token catalog repository
func NewTokenRepo(db *sqlx.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// GetByAddress retrieves a token by its master contract address
func (r *TokenRepo) GetByAddress(ctx context.Context, tokenAddress string) (*entities.Token, error) {
	var token entities.Token
	query := `SELECT slug, name, symbol, decimals, chain, token_address, image, claim_api_url, is_tiny
		FROM tokens WHERE token_address = $1`

	if err := r.db.GetContext(ctx, &token, query, tokenAddress); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &token, nil
}

// GetBySlug retrieves a token by its slug
func (r *TokenRepo) GetBySlug(ctx context.Context, slug string) (*entities.Token, error) {
	var token entities.Token
	query := `SELECT slug, name, symbol, decimals, chain, token_address, image, claim_api_url, is_tiny
		FROM tokens WHERE slug = $1`

	if err := r.db.GetContext(ctx, &token, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &token, nil
}

// List retrieves all known tokens
func (r *TokenRepo) List(ctx context.Context) ([]entities.Token, error) {
	var tokens []entities.Token
	query := `SELECT slug, name, symbol, decimals, chain, token_address, image, claim_api_url, is_tiny
		FROM tokens ORDER BY symbol`

	if err := r.db.SelectContext(ctx, &tokens, query); err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	return tokens, nil
}

// Upsert creates or refreshes a token's metadata
func (r *TokenRepo) Upsert(ctx context.Context, token *entities.Token) error {
	query := `
		INSERT INTO tokens (slug, name, symbol, decimals, chain, token_address, image, claim_api_url, is_tiny)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (token_address) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			decimals = EXCLUDED.decimals,
			image = EXCLUDED.image,
			claim_api_url = EXCLUDED.claim_api_url,
			is_tiny = EXCLUDED.is_tiny,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		token.Slug,
		token.Name,
		token.Symbol,
		token.Decimals,
		token.Chain,
		token.TokenAddress,
		token.Image,
		token.ClaimAPIURL,
		token.IsTiny,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}

	return nil
}
