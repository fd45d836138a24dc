package ton

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"

	"github.com/tonwork/jetton-engine/internal/domain/entities"
)

// ParseAddress accepts a friendly (base64) or raw (workchain:hex) address
func ParseAddress(s string) (*address.Address, error) {
	if strings.Contains(s, ":") {
		return address.ParseRawAddr(s)
	}
	return address.ParseAddr(s)
}

// ToBase64Address canonicalizes an address into its friendly form with the
// given bounceable flag, tagged for the network
func ToBase64Address(s string, bounceable bool, network entities.Network) (string, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return "", fmt.Errorf("failed to parse address %q: %w", s, err)
	}
	return FriendlyAddress(addr, bounceable, network), nil
}

// FriendlyAddress renders an already-parsed address in friendly form
func FriendlyAddress(addr *address.Address, bounceable bool, network entities.Network) string {
	return addr.Bounce(bounceable).Testnet(network == entities.NetworkTestnet).String()
}

// ToRawAddress renders an address in the raw workchain:hex form used by
// off-chain APIs
func ToRawAddress(s string) (string, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return "", fmt.Errorf("failed to parse address %q: %w", s, err)
	}
	return fmt.Sprintf("%d:%s", addr.Workchain(), hex.EncodeToString(addr.Data())), nil
}
