package testutil

import (
	"math/big"
	"time"

	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
)

// Common test addresses. Raw form parses on any network without a checksum.
const (
	USDTAddress   = "EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"
	AliceAddress  = "0:1111111111111111111111111111111111111111111111111111111111111111"
	BobAddress    = "0:2222222222222222222222222222222222222222222222222222222222222222"
	WalletAddress = "0:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	MasterAddress = "0:bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

// EmptyCellBOC is a serialized empty cell, usable wherever a payload BOC is expected.
var EmptyCellBOC = ton.CellToBase64(cell.BeginCell().EndCell())

// CreateTestToken creates a test token with default values
func CreateTestToken(opts ...TokenOption) entities.Token {
	t := entities.Token{
		Slug:         "ton-0bbbbbbbbb",
		Name:         "Test Jetton",
		Symbol:       "TST",
		Decimals:     entities.DefaultDecimals,
		Chain:        "ton",
		TokenAddress: MasterAddress,
	}

	for _, opt := range opts {
		opt(&t)
	}

	return t
}

type TokenOption func(*entities.Token)

func TokenWithSlug(slug string) TokenOption {
	return func(t *entities.Token) {
		t.Slug = slug
	}
}

func TokenWithAddress(addr string) TokenOption {
	return func(t *entities.Token) {
		t.TokenAddress = addr
	}
}

func TokenWithSymbol(symbol string) TokenOption {
	return func(t *entities.Token) {
		t.Symbol = symbol
	}
}

func TokenWithDecimals(dec int) TokenOption {
	return func(t *entities.Token) {
		t.Decimals = dec
	}
}

func TokenWithClaimAPI(url string) TokenOption {
	return func(t *entities.Token) {
		t.ClaimAPIURL = url
	}
}

func TokenWithTiny() TokenOption {
	return func(t *entities.Token) {
		t.IsTiny = true
	}
}

// CreateTestClaimRecord creates an unexpired claim record
func CreateTestClaimRecord(opts ...ClaimOption) *repositories.ClaimRecord {
	r := &repositories.ClaimRecord{
		CustomPayload: EmptyCellBOC,
		StateInit:     EmptyCellBOC,
		Amount:        big.NewInt(1_000_000_000),
		StartFrom:     time.Now().Add(-24 * time.Hour),
		ExpiredAt:     time.Now().Add(24 * time.Hour),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

type ClaimOption func(*repositories.ClaimRecord)

func ClaimWithExpiredAt(at time.Time) ClaimOption {
	return func(r *repositories.ClaimRecord) {
		r.ExpiredAt = at
	}
}

func ClaimWithAmount(amount int64) ClaimOption {
	return func(r *repositories.ClaimRecord) {
		r.Amount = big.NewInt(amount)
	}
}

func ClaimWithPayload(payload string) ClaimOption {
	return func(r *repositories.ClaimRecord) {
		r.CustomPayload = payload
	}
}

// PointerTo returns a pointer to the given value
func PointerTo[T any](v T) *T {
	return &v
}
