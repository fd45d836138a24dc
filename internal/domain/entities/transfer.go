package entities

import (
	"math/big"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// TransferRequest describes one outbound jetton transfer to construct
type TransferRequest struct {
	Network      Network
	TokenAddress string
	FromAddress  string
	ToAddress    string
	Amount       *big.Int
	// ForwardPayload rides through the jetton wallet to the recipient
	ForwardPayload *cell.Cell
	// ForwardAmount in nanoton; nil means the protocol-standard default
	ForwardAmount *big.Int
	// SkipMintless disables claim resolution, for flows where a provisional
	// balance would be semantically wrong (e.g. an uninitialized counterparty
	// wallet in a cross-token operation).
	SkipMintless bool
}

// TransferPlan is the assembled transfer, ready for signing and broadcast
// by an external collaborator
type TransferPlan struct {
	// AttachedAmount is the nanoton funded by the sender; RealAmount is the
	// estimated actual spend. The difference comes back as excess.
	AttachedAmount *big.Int
	RealAmount     *big.Int
	// WalletAddress is the owner's jetton wallet contract the message goes to
	WalletAddress   string
	Body            *cell.Cell
	StateInit       *cell.Cell
	MintlessBalance *big.Int
	WalletDeployed  bool
}

// TransferParams is a transfer pre-built elsewhere, subject to mintless
// augmentation before signing
type TransferParams struct {
	ToAddress string
	Amount    *big.Int
	// Payload is the base64-encoded BOC of the message body
	Payload   string
	StateInit string // base64 BOC, empty if none
}
