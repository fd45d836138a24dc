// Package fees guesses the toncoin amounts a jetton transfer must carry.
// In contrast to the blockchain gas fee, the attached amount is part of the
// transfer itself: the jetton wallet refunds the unspent part as excess.
package fees

import (
	"math/big"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
)

// Schedule holds the protocol fee constants, in nanoton. It is injected
// rather than hard-coded so testnet schedules can differ.
type Schedule struct {
	// Attached amounts by tier
	StandardAmount uint64
	TinyAmount     uint64

	// Estimated real spend by tier
	StandardRealAmount uint64
	TinyRealAmount     uint64
	// TiniestRealAmount applies to the one designated stable token whose
	// wallet contract is cheaper to run than other tiny tokens.
	TiniestRealAmount uint64

	// ClaimAmount is added to both amounts when a mintless claim rides along
	ClaimAmount uint64

	// ForwardAmount is the protocol-standard forward_ton_amount
	ForwardAmount uint64

	// TiniestTokenSlug designates the token that gets TiniestRealAmount
	TiniestTokenSlug string
}

// Amounts is the two-amount fee model: what the sender funds and what is
// expected to actually burn. Attached >= Real always holds.
type Amounts struct {
	Attached *big.Int
	Real     *big.Int
}

// ForTransfer returns the attached/real toncoin amounts for transferring the
// given token. The result is a heuristic upper bound, not exact accounting.
// Pure: same inputs always produce the same outputs.
func (s Schedule) ForTransfer(token *entities.Token, willClaim bool) Amounts {
	var attached, real uint64

	if token.IsTiny {
		attached = s.TinyAmount
		if token.Slug == s.TiniestTokenSlug {
			real = s.TiniestRealAmount
		} else {
			real = s.TinyRealAmount
		}
	} else {
		attached = s.StandardAmount
		real = s.StandardRealAmount
	}

	if willClaim {
		attached += s.ClaimAmount
		real += s.ClaimAmount
	}

	return Amounts{
		Attached: new(big.Int).SetUint64(attached),
		Real:     new(big.Int).SetUint64(real),
	}
}

// DefaultForwardAmount returns the protocol-standard forward amount as a big.Int
func (s Schedule) DefaultForwardAmount() *big.Int {
	return new(big.Int).SetUint64(s.ForwardAmount)
}
