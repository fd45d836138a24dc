package repositories

import (
	"context"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
)

// TokenCatalog provides read/write access to known jetton masters.
// Lookups are by master contract address or by slug.
type TokenCatalog interface {
	// GetByAddress returns the token or ErrTokenNotFound from the backing store
	GetByAddress(ctx context.Context, tokenAddress string) (*entities.Token, error)

	// GetBySlug returns the token or ErrTokenNotFound
	GetBySlug(ctx context.Context, slug string) (*entities.Token, error)

	// Upsert inserts or refreshes a token's metadata
	Upsert(ctx context.Context, token *entities.Token) error

	// List returns all known tokens
	List(ctx context.Context) ([]entities.Token, error)
}
