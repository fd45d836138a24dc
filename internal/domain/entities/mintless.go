package entities

import "math/big"

// ClaimStatus is the resolved state of a mintless claim for one owner
type ClaimStatus int

const (
	// ClaimNone means no claim applies: the token is not mintless, the
	// caller opted out, or the claim record is missing or expired.
	ClaimNone ClaimStatus = iota
	// ClaimPending means a valid unexpired claim record exists and has not
	// been recorded on-chain yet.
	ClaimPending
	// ClaimDone means the jetton wallet already recorded the claim.
	ClaimDone
)

// MintlessState is the result of resolving mintless claim state for one
// (token, owner) pair. It is recomputed on every transfer attempt because
// on-chain claim status can change between calls.
type MintlessState struct {
	WalletDeployed bool
	Status         ClaimStatus

	// The fields below are populated only for ClaimPending.
	Balance       *big.Int
	CustomPayload string // base64 BOC attached as the transfer's custom payload
	StateInit     string // base64 BOC, set only when the wallet is not deployed
}

// WillClaim reports whether the next transfer must carry the claim payload
func (s MintlessState) WillClaim() bool {
	return s.Status == ClaimPending
}
