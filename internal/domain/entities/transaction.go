package entities

import (
	"math/big"
	"time"
)

// Message types recognized on jetton-wallet message bodies
const (
	MsgTypeTransfer         = "transfer"
	MsgTypeInternalTransfer = "internalTransfer"
)

// RawTransaction is a ledger transaction as reported by the node, before any
// jetton-level interpretation
type RawTransaction struct {
	Hash        string
	LT          uint64
	FromAddress string
	ToAddress   string
	// Body is the base64-encoded BOC of the inbound message body
	Body      string
	Timestamp time.Time
}

// TokenTransaction is the jetton-level view of a ledger transaction.
// It is derived on demand and never persisted.
type TokenTransaction struct {
	Hash        string
	Slug        string
	IsIncoming  bool
	FromAddress string
	ToAddress   string
	// NormalizedAddress is the canonical bounceable form of the counterparty
	// regardless of direction, for grouping both legs of a conversation.
	NormalizedAddress string
	// Amount is negative for outgoing transfers
	Amount           *big.Int
	Comment          string
	EncryptedComment string
	Type             string
	Timestamp        time.Time
}
