package services

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/xssnick/tonutils-go/address"
	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/domain/fees"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
	"github.com/tonwork/jetton-engine/internal/testutil"
)

func testFeeSchedule() fees.Schedule {
	return fees.Schedule{
		StandardAmount:     60_000_000,
		TinyAmount:         18_000_000,
		StandardRealAmount: 30_000_000,
		TinyRealAmount:     8_000_000,
		TiniestRealAmount:  3_000_000,
		ClaimAmount:        30_000_000,
		ForwardAmount:      1,
		TiniestTokenSlug:   "ton-eqcxe6mutq",
	}
}

func mustParse(t *testing.T, s string) *address.Address {
	t.Helper()
	addr, err := ton.ParseAddress(s)
	if err != nil {
		t.Fatalf("bad test address %q: %v", s, err)
	}
	return addr
}

func canonical(t *testing.T, addr string) string {
	t.Helper()
	s, err := ton.ToBase64Address(addr, true, entities.NetworkMainnet)
	if err != nil {
		t.Fatalf("bad test address %q: %v", addr, err)
	}
	return s
}

type transferFixture struct {
	ledger  *testutil.MockLedgerGateway
	claims  *testutil.MockClaimGateway
	catalog *testutil.MockTokenCatalog
	svc     *TransferService
	token   entities.Token
}

func newTransferFixture(t *testing.T, opts ...testutil.TokenOption) *transferFixture {
	t.Helper()

	tokenAddress := canonical(t, testutil.MasterAddress)

	ledger := testutil.NewMockLedgerGateway()
	ledger.ResolveTokenAddressFunc = func(ctx context.Context, network entities.Network, walletAddress string) (string, error) {
		return tokenAddress, nil
	}

	claims := testutil.NewMockClaimGateway()
	catalog := testutil.NewMockTokenCatalog()

	opts = append([]testutil.TokenOption{testutil.TokenWithAddress(tokenAddress)}, opts...)
	token := testutil.CreateTestToken(opts...)
	catalog.AddToken(token)

	mintless := NewMintlessService(ledger, claims, zap.NewNop())
	svc := NewTransferService(ledger, catalog, mintless, testFeeSchedule(), zap.NewNop())

	return &transferFixture{
		ledger:  ledger,
		claims:  claims,
		catalog: catalog,
		svc:     svc,
		token:   token,
	}
}

func buildRequest(amount int64) entities.TransferRequest {
	return entities.TransferRequest{
		Network:      entities.NetworkMainnet,
		TokenAddress: testutil.MasterAddress,
		FromAddress:  testutil.AliceAddress,
		ToAddress:    testutil.BobAddress,
		Amount:       big.NewInt(amount),
	}
}

func TestTransferService_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("standard token", func(t *testing.T) {
		f := newTransferFixture(t)

		plan, err := f.svc.Build(ctx, buildRequest(1_000_000))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if plan.AttachedAmount.Uint64() != 60_000_000 {
			t.Errorf("attached = %s, want 60000000", plan.AttachedAmount)
		}
		if plan.RealAmount.Uint64() != 30_000_000 {
			t.Errorf("real = %s, want 30000000", plan.RealAmount)
		}
		if plan.WalletAddress != testutil.WalletAddress {
			t.Errorf("wallet = %q", plan.WalletAddress)
		}
		if plan.StateInit != nil {
			t.Error("expected no state init")
		}
		if !plan.WalletDeployed {
			t.Error("expected deployed wallet")
		}

		parsed, err := ton.ParseTransferPayload(ton.CellToBase64(plan.Body))
		if err != nil {
			t.Fatalf("body does not decode: %v", err)
		}
		if parsed.Amount.Int64() != 1_000_000 {
			t.Errorf("body amount = %s, want 1000000", parsed.Amount)
		}
		if parsed.ForwardAmount.Int64() != 1 {
			t.Errorf("forward amount = %s, want protocol default 1", parsed.ForwardAmount)
		}
		if parsed.CustomPayload != nil {
			t.Error("expected no custom payload")
		}
	})

	t.Run("tiny token fee tier", func(t *testing.T) {
		f := newTransferFixture(t, testutil.TokenWithTiny())

		plan, err := f.svc.Build(ctx, buildRequest(500))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.AttachedAmount.Uint64() != 18_000_000 {
			t.Errorf("attached = %s, want 18000000", plan.AttachedAmount)
		}
		if plan.RealAmount.Uint64() != 8_000_000 {
			t.Errorf("real = %s, want 8000000", plan.RealAmount)
		}
	})

	t.Run("forward amount above default is surcharged", func(t *testing.T) {
		f := newTransferFixture(t)

		req := buildRequest(1_000_000)
		req.ForwardAmount = big.NewInt(5_000_000)

		plan, err := f.svc.Build(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.AttachedAmount.Uint64() != 65_000_000 {
			t.Errorf("attached = %s, want 65000000", plan.AttachedAmount)
		}
		if plan.RealAmount.Uint64() != 30_000_000 {
			t.Errorf("real = %s, want 30000000", plan.RealAmount)
		}

		parsed, err := ton.ParseTransferPayload(ton.CellToBase64(plan.Body))
		if err != nil {
			t.Fatalf("body does not decode: %v", err)
		}
		if parsed.ForwardAmount.Int64() != 5_000_000 {
			t.Errorf("forward amount = %s, want 5000000", parsed.ForwardAmount)
		}
	})

	t.Run("spoofed token wallet", func(t *testing.T) {
		f := newTransferFixture(t)
		f.ledger.ResolveTokenAddressFunc = func(ctx context.Context, network entities.Network, walletAddress string) (string, error) {
			return canonical(t, testutil.USDTAddress), nil
		}

		_, err := f.svc.Build(ctx, buildRequest(100))
		if !errors.Is(err, ErrInvalidContract) {
			t.Errorf("expected ErrInvalidContract, got %v", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newTransferFixture(t)
		f.catalog.Reset()

		if _, err := f.svc.Build(ctx, buildRequest(100)); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("pending mintless claim", func(t *testing.T) {
		f := newTransferFixture(t, testutil.TokenWithClaimAPI("https://claim.example"))
		f.ledger.IsContractActiveFunc = func(ctx context.Context, network entities.Network, addr string) (bool, error) {
			return false, nil
		}
		f.claims.GetWalletClaimFunc = func(ctx context.Context, apiURL, rawOwnerAddress string) (*repositories.ClaimRecord, error) {
			return testutil.CreateTestClaimRecord(), nil
		}

		plan, err := f.svc.Build(ctx, buildRequest(100))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if plan.AttachedAmount.Uint64() != 90_000_000 {
			t.Errorf("attached = %s, want claim-inclusive 90000000", plan.AttachedAmount)
		}
		if plan.RealAmount.Uint64() != 60_000_000 {
			t.Errorf("real = %s, want claim-inclusive 60000000", plan.RealAmount)
		}
		if plan.StateInit == nil {
			t.Error("undeployed wallet needs state init")
		}
		if plan.WalletDeployed {
			t.Error("expected undeployed wallet")
		}
		if plan.MintlessBalance == nil {
			t.Error("expected mintless balance")
		}

		parsed, err := ton.ParseTransferPayload(ton.CellToBase64(plan.Body))
		if err != nil {
			t.Fatalf("body does not decode: %v", err)
		}
		if parsed.CustomPayload == nil {
			t.Error("claim custom payload missing from body")
		}

		// The undeployed wallet skips the master verification
		if f.ledger.CallCount("ResolveTokenAddress") != 0 {
			t.Error("cannot verify an undeployed wallet")
		}
	})

	t.Run("skip mintless leaves claim behind", func(t *testing.T) {
		f := newTransferFixture(t, testutil.TokenWithClaimAPI("https://claim.example"))
		f.claims.GetWalletClaimFunc = func(ctx context.Context, apiURL, rawOwnerAddress string) (*repositories.ClaimRecord, error) {
			t.Error("claim gateway must not be called")
			return nil, nil
		}

		req := buildRequest(100)
		req.SkipMintless = true

		plan, err := f.svc.Build(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.AttachedAmount.Uint64() != 60_000_000 {
			t.Errorf("attached = %s, want 60000000", plan.AttachedAmount)
		}
	})

	t.Run("bad destination address", func(t *testing.T) {
		f := newTransferFixture(t)

		req := buildRequest(100)
		req.ToAddress = "garbage"

		if _, err := f.svc.Build(ctx, req); err == nil {
			t.Error("expected error")
		}
	})
}

func TestTransferService_AugmentWithClaim(t *testing.T) {
	ctx := context.Background()

	prebuilt := func(t *testing.T) entities.TransferParams {
		t.Helper()
		to := mustParse(t, testutil.BobAddress)
		response := mustParse(t, testutil.AliceAddress)
		body := ton.BuildTransferBody(ton.TransferBody{
			QueryID:         77,
			Amount:          big.NewInt(123_456),
			ToAddress:       to,
			ResponseAddress: response,
			ForwardAmount:   big.NewInt(1),
		})
		return entities.TransferParams{
			ToAddress: testutil.WalletAddress,
			Amount:    big.NewInt(60_000_000),
			Payload:   ton.CellToBase64(body),
		}
	}

	t.Run("empty payload passes through", func(t *testing.T) {
		f := newTransferFixture(t)

		params := entities.TransferParams{ToAddress: testutil.WalletAddress, Amount: big.NewInt(1)}
		got, err := f.svc.AugmentWithClaim(ctx, entities.NetworkMainnet, testutil.AliceAddress, f.token.TokenAddress, params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Payload != "" || got.StateInit != "" {
			t.Errorf("params changed: %+v", got)
		}
	})

	t.Run("unknown token passes through", func(t *testing.T) {
		f := newTransferFixture(t)
		f.catalog.Reset()

		params := prebuilt(t)
		got, err := f.svc.AugmentWithClaim(ctx, entities.NetworkMainnet, testutil.AliceAddress, f.token.TokenAddress, params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Payload != params.Payload {
			t.Error("payload changed for unknown token")
		}
	})

	t.Run("non-mintless token passes through", func(t *testing.T) {
		f := newTransferFixture(t)

		params := prebuilt(t)
		got, err := f.svc.AugmentWithClaim(ctx, entities.NetworkMainnet, testutil.AliceAddress, f.token.TokenAddress, params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Payload != params.Payload {
			t.Error("payload changed for non-mintless token")
		}
		if len(f.claims.Calls) != 0 {
			t.Error("claim gateway must not be called")
		}
	})

	t.Run("undecodable payload on mintless token is fatal", func(t *testing.T) {
		f := newTransferFixture(t, testutil.TokenWithClaimAPI("https://claim.example"))

		params := entities.TransferParams{
			ToAddress: testutil.WalletAddress,
			Amount:    big.NewInt(1),
			Payload:   "dGhpcyBpcyBub3QgYSBib2M=",
		}
		_, err := f.svc.AugmentWithClaim(ctx, entities.NetworkMainnet, testutil.AliceAddress, f.token.TokenAddress, params)
		if !errors.Is(err, ton.ErrInvalidPayload) {
			t.Errorf("expected ErrInvalidPayload, got %v", err)
		}
	})

	t.Run("no pending claim passes through", func(t *testing.T) {
		f := newTransferFixture(t, testutil.TokenWithClaimAPI("https://claim.example"))

		params := prebuilt(t)
		got, err := f.svc.AugmentWithClaim(ctx, entities.NetworkMainnet, testutil.AliceAddress, f.token.TokenAddress, params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Payload != params.Payload {
			t.Error("payload changed without a claim")
		}
	})

	t.Run("pending claim rewrites the payload", func(t *testing.T) {
		f := newTransferFixture(t, testutil.TokenWithClaimAPI("https://claim.example"))
		f.ledger.IsContractActiveFunc = func(ctx context.Context, network entities.Network, addr string) (bool, error) {
			return false, nil
		}
		f.claims.GetWalletClaimFunc = func(ctx context.Context, apiURL, rawOwnerAddress string) (*repositories.ClaimRecord, error) {
			return testutil.CreateTestClaimRecord(), nil
		}

		params := prebuilt(t)
		got, err := f.svc.AugmentWithClaim(ctx, entities.NetworkMainnet, testutil.AliceAddress, f.token.TokenAddress, params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Payload == params.Payload {
			t.Fatal("payload not rewritten")
		}
		if got.StateInit == "" {
			t.Error("expected state init for undeployed wallet")
		}

		parsed, err := ton.ParseTransferPayload(got.Payload)
		if err != nil {
			t.Fatalf("rewritten payload does not decode: %v", err)
		}
		if parsed.QueryID != 77 {
			t.Errorf("query id = %d, want preserved 77", parsed.QueryID)
		}
		if parsed.Amount.Int64() != 123_456 {
			t.Errorf("amount = %s, want preserved 123456", parsed.Amount)
		}
		if parsed.CustomPayload == nil {
			t.Error("claim custom payload missing")
		}
	})
}
