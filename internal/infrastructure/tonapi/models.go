package tonapi

import (
	"strconv"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
)

// AccountAddress is an address as reported by the API, raw form
type AccountAddress struct {
	Address string `json:"address"`
}

// JettonPreview is the API's short description of a jetton master
type JettonPreview struct {
	Address             string `json:"address"`
	Name                string `json:"name"`
	Symbol              string `json:"symbol"`
	Decimals            *int   `json:"decimals"`
	Image               string `json:"image"`
	CustomPayloadAPIURL string `json:"custom_payload_api_uri"`
}

// Metadata converts the preview into the domain metadata shape
func (p *JettonPreview) Metadata() entities.JettonMetadata {
	md := entities.JettonMetadata{
		Name:                p.Name,
		Symbol:              p.Symbol,
		Image:               p.Image,
		CustomPayloadAPIURL: p.CustomPayloadAPIURL,
	}
	if p.Decimals != nil {
		md.Decimals = strconv.Itoa(*p.Decimals)
	}
	return md
}

// JettonBalance is one raw per-account balance record
type JettonBalance struct {
	Balance       string         `json:"balance"`
	WalletAddress AccountAddress `json:"wallet_address"`
	Jetton        *JettonPreview `json:"jetton"`
}

type jettonBalancesResponse struct {
	Balances []JettonBalance `json:"balances"`
}

// JettonInfo is the full jetton master record
type JettonInfo struct {
	Mintable    bool                    `json:"mintable"`
	TotalSupply string                  `json:"total_supply"`
	Metadata    entities.JettonMetadata `json:"metadata"`
}
