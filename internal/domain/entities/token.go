package entities

import (
	"math/big"
	"strconv"
	"strings"
)

// Network identifies which TON network an address or query belongs to
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// DefaultDecimals is the jetton-standard fallback when metadata omits decimals
const DefaultDecimals = 9

// Token represents a jetton master known to the engine
type Token struct {
	Slug         string `db:"slug"`
	Name         string `db:"name"`
	Symbol       string `db:"symbol"`
	Decimals     int    `db:"decimals"`
	Chain        string `db:"chain"`
	TokenAddress string `db:"token_address"`
	Image        string `db:"image"`
	// ClaimAPIURL is the mintless custom-payload API base URL; empty for
	// tokens without a mintless phase.
	ClaimAPIURL string `db:"claim_api_url"`
	IsTiny      bool   `db:"is_tiny"`
}

// IsMintless reports whether the token may carry unclaimed mintless balances
func (t *Token) IsMintless() bool {
	return t.ClaimAPIURL != ""
}

// TokenBalance is one parsed per-owner jetton balance entry
type TokenBalance struct {
	Slug               string
	Balance            *big.Int
	Token              Token
	TokenWalletAddress string
}

// JettonMetadata is the on-chain/off-chain metadata blob of a jetton master.
// Decimals is a string because the TEP-64 content layout stores it as text.
type JettonMetadata struct {
	Name                string `json:"name"`
	Symbol              string `json:"symbol"`
	Decimals            string `json:"decimals"`
	Image               string `json:"image"`
	ImageData           string `json:"image_data"`
	CustomPayloadAPIURL string `json:"custom_payload_api_uri"`
}

// BuildTokenSlug derives the engine-wide unique token identifier from the
// chain name and the token address
func BuildTokenSlug(chain, address string) string {
	var b strings.Builder
	for _, r := range address {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == 10 {
			break
		}
	}
	return strings.ToLower(chain + "-" + b.String())
}

// TokenFromMetadata builds a Token from jetton metadata. Missing decimals fall
// back to DefaultDecimals; the first non-empty image source wins.
func TokenFromMetadata(address string, md JettonMetadata) Token {
	decimals := DefaultDecimals
	if md.Decimals != "" {
		if d, err := strconv.Atoi(md.Decimals); err == nil {
			decimals = d
		}
	}

	image := FixIPFSURL(md.Image)
	if image == "" && md.ImageData != "" {
		image = "data:image/png;base64," + md.ImageData
	}

	return Token{
		Slug:         BuildTokenSlug("ton", address),
		Name:         md.Name,
		Symbol:       md.Symbol,
		Decimals:     decimals,
		Chain:        "ton",
		TokenAddress: address,
		Image:        image,
		ClaimAPIURL:  md.CustomPayloadAPIURL,
	}
}

// FixIPFSURL rewrites ipfs:// URLs to a public HTTP gateway
func FixIPFSURL(url string) string {
	if strings.HasPrefix(url, "ipfs://") {
		return "https://ipfs.io/ipfs/" + strings.TrimPrefix(url, "ipfs://")
	}
	return url
}
