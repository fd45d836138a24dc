package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"

	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/domain/fees"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
	"github.com/tonwork/jetton-engine/internal/infrastructure/database"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
)

// ErrInvalidContract means the jetton wallet reports a different master than
// the one the transfer was requested for. The transfer must not proceed:
// the wallet address may belong to an attacker-controlled token.
var ErrInvalidContract = errors.New("invalid contract")

// TransferService assembles outbound jetton transfers
type TransferService struct {
	ledger   repositories.LedgerGateway
	catalog  repositories.TokenCatalog
	mintless *MintlessService
	schedule fees.Schedule
	logger   *zap.Logger
}

// NewTransferService creates a new transfer orchestrator
func NewTransferService(
	ledger repositories.LedgerGateway,
	catalog repositories.TokenCatalog,
	mintless *MintlessService,
	schedule fees.Schedule,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		ledger:   ledger,
		catalog:  catalog,
		mintless: mintless,
		schedule: schedule,
		logger:   logger,
	}
}

// Build assembles the transfer plan for one outbound jetton transfer
func (s *TransferService) Build(ctx context.Context, req entities.TransferRequest) (*entities.TransferPlan, error) {
	tokenAddress, err := ton.ToBase64Address(req.TokenAddress, true, req.Network)
	if err != nil {
		return nil, fmt.Errorf("bad token address: %w", err)
	}

	walletAddress, err := s.ledger.ResolveWalletAddress(ctx, req.Network, req.FromAddress, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token wallet: %w", err)
	}

	token, err := s.catalog.GetByAddress(ctx, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token %s: %w", tokenAddress, err)
	}

	state, err := s.mintless.Resolve(ctx, req.Network, req.FromAddress, token, walletAddress, req.SkipMintless)
	if err != nil {
		return nil, err
	}

	// A deployed wallet must report the token it was requested for; anything
	// else is a spoofed-token attempt.
	if state.WalletDeployed {
		realTokenAddress, err := s.ledger.ResolveTokenAddress(ctx, req.Network, walletAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to verify token wallet: %w", err)
		}
		if realTokenAddress != tokenAddress {
			return nil, fmt.Errorf("%w: wallet %s belongs to %s, not %s",
				ErrInvalidContract, walletAddress, realTokenAddress, tokenAddress)
		}
	}

	toAddress, err := ton.ParseAddress(req.ToAddress)
	if err != nil {
		return nil, fmt.Errorf("bad destination address: %w", err)
	}
	responseAddress, err := ton.ParseAddress(req.FromAddress)
	if err != nil {
		return nil, fmt.Errorf("bad sender address: %w", err)
	}

	body := ton.TransferBody{
		QueryID:         rand.Uint64(),
		Amount:          req.Amount,
		ToAddress:       toAddress,
		ResponseAddress: responseAddress,
		ForwardAmount:   req.ForwardAmount,
		ForwardPayload:  req.ForwardPayload,
	}

	if state.CustomPayload != "" {
		if body.CustomPayload, err = ton.CellFromBase64(state.CustomPayload); err != nil {
			return nil, fmt.Errorf("bad claim payload: %w", err)
		}
	}

	amounts := s.schedule.ForTransfer(token, state.WillClaim())

	defaultForward := s.schedule.DefaultForwardAmount()
	if body.ForwardAmount == nil {
		body.ForwardAmount = defaultForward
	} else if body.ForwardAmount.Cmp(defaultForward) > 0 {
		// The sender funds forwarding above the protocol default
		amounts.Attached = new(big.Int).Add(amounts.Attached, body.ForwardAmount)
	}

	plan := &entities.TransferPlan{
		AttachedAmount:  amounts.Attached,
		RealAmount:      amounts.Real,
		WalletAddress:   walletAddress,
		Body:            ton.BuildTransferBody(body),
		MintlessBalance: state.Balance,
		WalletDeployed:  state.WalletDeployed,
	}

	if state.StateInit != "" {
		if plan.StateInit, err = ton.CellFromBase64(state.StateInit); err != nil {
			return nil, fmt.Errorf("bad claim state init: %w", err)
		}
	}

	return plan, nil
}

// AugmentWithClaim injects a pending mintless claim into a transfer that was
// built without mintless awareness. Transfers that need no claim pass
// through unchanged; an undecodable payload is fatal.
func (s *TransferService) AugmentWithClaim(
	ctx context.Context,
	network entities.Network,
	fromAddress string,
	tokenAddress string,
	transfer entities.TransferParams,
) (entities.TransferParams, error) {
	if transfer.Payload == "" {
		return transfer, nil
	}

	token, err := s.catalog.GetByAddress(ctx, tokenAddress)
	if err != nil {
		if errors.Is(err, database.ErrTokenNotFound) {
			return transfer, nil
		}
		return entities.TransferParams{}, fmt.Errorf("failed to look up token: %w", err)
	}
	if !token.IsMintless() {
		return transfer, nil
	}

	parsed, err := ton.ParseTransferPayload(transfer.Payload)
	if err != nil {
		return entities.TransferParams{}, err
	}

	// The pre-built transfer's destination is the owner's jetton wallet
	state, err := s.mintless.Resolve(ctx, network, fromAddress, token, transfer.ToAddress, false)
	if err != nil {
		return entities.TransferParams{}, err
	}
	if !state.WillClaim() {
		return transfer, nil
	}

	customPayload, err := ton.CellFromBase64(state.CustomPayload)
	if err != nil {
		return entities.TransferParams{}, fmt.Errorf("bad claim payload: %w", err)
	}

	body := ton.BuildTransferBody(ton.TransferBody{
		QueryID:         parsed.QueryID,
		Amount:          parsed.Amount,
		ToAddress:       parsed.Destination,
		ResponseAddress: parsed.ResponseDestination,
		CustomPayload:   customPayload,
		ForwardAmount:   parsed.ForwardAmount,
		ForwardPayload:  parsed.ForwardPayload,
	})

	transfer.Payload = ton.CellToBase64(body)
	transfer.StateInit = state.StateInit

	s.logger.Debug("Augmented transfer with mintless claim",
		zap.String("token", token.Slug),
		zap.String("balance", state.Balance.String()),
	)

	return transfer, nil
}
