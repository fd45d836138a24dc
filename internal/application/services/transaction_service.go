package services

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
)

// TransactionService classifies ledger transactions as jetton transfers
type TransactionService struct {
	logger *zap.Logger
}

// NewTransactionService creates a new transaction classifier
func NewTransactionService(logger *zap.Logger) *TransactionService {
	return &TransactionService{logger: logger}
}

// ParseTransaction derives the jetton-level view of a transaction on the
// owner's jetton wallet. It returns nil when the message body carries no
// decodable token transfer.
func (s *TransactionService) ParseTransaction(
	network entities.Network,
	tx entities.RawTransaction,
	slug string,
	walletAddress string,
) *entities.TokenTransaction {
	if tx.Body == "" {
		return nil
	}

	msg, err := ton.ParseWalletMsgBody(tx.Body)
	if err != nil {
		s.logger.Debug("Undecodable wallet message body",
			zap.String("tx", tx.Hash),
			zap.Error(err),
		)
		return nil
	}
	if msg == nil {
		return nil
	}

	isIncoming := msg.IsIncoming()

	// On-chain convention: the counterparty of an outgoing jetton transfer
	// is the owner's own wallet; the real recipient only appears in the body.
	fromAddress := walletAddress
	toAddress := walletAddress
	if isIncoming {
		if msg.Address != nil {
			fromAddress = ton.FriendlyAddress(msg.Address, false, network)
		} else {
			fromAddress = tx.FromAddress
		}
	} else {
		if msg.Address == nil {
			return nil
		}
		toAddress = ton.FriendlyAddress(msg.Address, false, network)
	}

	// The counterparty's canonical form, same for both legs of a conversation
	counterparty := toAddress
	if isIncoming {
		counterparty = fromAddress
	}
	normalized, err := ton.ToBase64Address(counterparty, true, network)
	if err != nil {
		s.logger.Debug("Failed to normalize counterparty address",
			zap.String("tx", tx.Hash),
			zap.Error(err),
		)
		return nil
	}

	amount := new(big.Int).Set(msg.Amount)
	msgType := entities.MsgTypeTransfer
	if isIncoming {
		msgType = entities.MsgTypeInternalTransfer
	} else {
		amount.Neg(amount)
	}

	return &entities.TokenTransaction{
		Hash:              tx.Hash,
		Slug:              slug,
		IsIncoming:        isIncoming,
		FromAddress:       fromAddress,
		ToAddress:         toAddress,
		NormalizedAddress: normalized,
		Amount:            amount,
		Comment:           msg.Comment,
		EncryptedComment:  msg.EncryptedComment,
		Type:              msgType,
		Timestamp:         tx.Timestamp,
	}
}
