package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/domain/repositories"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
)

// MintlessService resolves whether a transfer must carry a mintless claim.
// The result is recomputed on every call; claim status can change on-chain
// between transfer attempts.
type MintlessService struct {
	ledger repositories.LedgerGateway
	claims repositories.ClaimGateway
	logger *zap.Logger
	now    func() time.Time
}

// NewMintlessService creates a new mintless claim resolver
func NewMintlessService(
	ledger repositories.LedgerGateway,
	claims repositories.ClaimGateway,
	logger *zap.Logger,
) *MintlessService {
	return &MintlessService{
		ledger: ledger,
		claims: claims,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve determines the mintless claim state for one (token, owner) pair.
// Ledger query errors propagate; claim API failures degrade to "no claim"
// so a claim-service outage never blocks an ordinary transfer.
func (s *MintlessService) Resolve(
	ctx context.Context,
	network entities.Network,
	ownerAddress string,
	token *entities.Token,
	tokenWalletAddress string,
	skipMintless bool,
) (entities.MintlessState, error) {
	if !token.IsMintless() {
		// Non-mintless wallets are assumed deployed. This is wrong for an
		// uninitialized owner wallet (e.g. the "from" side of a swap form)
		// and is kept as-is; downstream behavior depends on it.
		// TODO: check wallet deployment for mintful tokens too.
		return entities.MintlessState{WalletDeployed: true}, nil
	}

	deployed, err := s.ledger.IsContractActive(ctx, network, tokenWalletAddress)
	if err != nil {
		return entities.MintlessState{}, fmt.Errorf("failed to check wallet deployment: %w", err)
	}

	state := entities.MintlessState{WalletDeployed: deployed}

	if skipMintless {
		return state, nil
	}

	if deployed {
		claimed, err := s.ledger.IsWalletClaimed(ctx, network, tokenWalletAddress)
		if err != nil {
			return entities.MintlessState{}, fmt.Errorf("failed to check claim status: %w", err)
		}
		if claimed {
			state.Status = entities.ClaimDone
			return state, nil
		}
	}

	rawOwner, err := ton.ToRawAddress(ownerAddress)
	if err != nil {
		return entities.MintlessState{}, fmt.Errorf("failed to convert owner address: %w", err)
	}

	record, err := s.claims.GetWalletClaim(ctx, token.ClaimAPIURL, rawOwner)
	if err != nil {
		// Fail open: a claim API failure means a plain transfer, not an error
		s.logger.Debug("Claim record fetch failed, proceeding without claim",
			zap.String("token", token.Slug),
			zap.Error(err),
		)
		return state, nil
	}
	if record == nil || record.Expired(s.now()) {
		return state, nil
	}

	state.Status = entities.ClaimPending
	state.Balance = record.Amount
	state.CustomPayload = record.CustomPayload
	if !deployed {
		state.StateInit = record.StateInit
	}

	return state, nil
}
