package repositories

import (
	"context"
	"math/big"
	"time"
)

// ClaimRecord is an off-chain mintless claim entitlement for one owner
type ClaimRecord struct {
	CustomPayload string // base64 BOC
	StateInit     string // base64 BOC
	Amount        *big.Int
	StartFrom     time.Time
	ExpiredAt     time.Time
}

// Expired reports whether the record is unusable at the given instant
func (r *ClaimRecord) Expired(now time.Time) bool {
	return !r.ExpiredAt.After(now)
}

// ClaimGateway fetches off-chain mintless claim records.
// A nil record with a nil error means no record exists for the owner.
// Callers decide what a fetch error means; the mintless resolver treats it
// as absence of claim data (fail-open).
type ClaimGateway interface {
	GetWalletClaim(ctx context.Context, apiURL, rawOwnerAddress string) (*ClaimRecord, error)
}
