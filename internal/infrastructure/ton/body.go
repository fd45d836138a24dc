package ton

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// Jetton wallet operation codes (TEP-74)
const (
	OpTransfer         uint64 = 0x0f8a7ea5
	OpInternalTransfer uint64 = 0x178d4519
)

// Forward-payload comment prefixes
const (
	commentPrefixPlain     uint64 = 0x00000000
	commentPrefixEncrypted uint64 = 0x2167da4b
)

// ErrInvalidPayload marks a payload that does not match the jetton wallet
// message grammar. Callers must abort the operation that tried to decode it.
var ErrInvalidPayload = errors.New("invalid transfer payload")

// WalletMsg is a decoded jetton-wallet message body, one variant per opcode
type WalletMsg struct {
	Op      uint64
	QueryID uint64
	Amount  *big.Int
	// Address is the sender for internal transfers and the destination for
	// outgoing transfers; nil when the body carries addr_none.
	Address          *address.Address
	Comment          string
	EncryptedComment string
}

// IsIncoming reports whether the message credits the wallet
func (m *WalletMsg) IsIncoming() bool {
	return m.Op == OpInternalTransfer
}

// ParseWalletMsgBody decodes a base64 BOC jetton-wallet message body.
// Unrecognized opcodes return (nil, nil); malformed bodies of a recognized
// opcode return an error.
func ParseWalletMsgBody(body string) (*WalletMsg, error) {
	c, err := cellFromBase64(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode message body: %w", err)
	}

	s := c.BeginParse()
	if s.BitsLeft() < 32 {
		return nil, nil
	}

	op, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("failed to read opcode: %w", err)
	}

	switch op {
	case OpTransfer, OpInternalTransfer:
	default:
		return nil, nil
	}

	msg := &WalletMsg{Op: op}

	if msg.QueryID, err = s.LoadUInt(64); err != nil {
		return nil, fmt.Errorf("failed to read query id: %w", err)
	}
	if msg.Amount, err = s.LoadBigCoins(); err != nil {
		return nil, fmt.Errorf("failed to read amount: %w", err)
	}

	// internal_transfer carries the sender here, transfer the destination
	addr, err := s.LoadAddr()
	if err != nil {
		return nil, fmt.Errorf("failed to read address: %w", err)
	}
	if addr.Type() == address.StdAddress {
		msg.Address = addr
	}

	if _, err = s.LoadAddr(); err != nil {
		return nil, fmt.Errorf("failed to read response address: %w", err)
	}

	if op == OpTransfer {
		if _, err = s.LoadMaybeRef(); err != nil {
			return nil, fmt.Errorf("failed to read custom payload: %w", err)
		}
	}

	if _, err = s.LoadBigCoins(); err != nil {
		return nil, fmt.Errorf("failed to read forward amount: %w", err)
	}

	fwd, err := loadEitherPayload(s)
	if err != nil {
		return nil, fmt.Errorf("failed to read forward payload: %w", err)
	}
	if fwd != nil {
		msg.Comment, msg.EncryptedComment = parseComment(fwd)
	}

	return msg, nil
}

// TransferBody describes one jetton transfer message body to encode.
// The field order below is the TEP-74 wire order; it must not change.
type TransferBody struct {
	QueryID         uint64
	Amount          *big.Int
	ToAddress       *address.Address
	ResponseAddress *address.Address
	// CustomPayload carries protocol-level data such as the mintless claim.
	// It is a distinguished field so contracts can tell it apart from the
	// application-level forward payload.
	CustomPayload  *cell.Cell
	ForwardAmount  *big.Int
	ForwardPayload *cell.Cell
}

// BuildTransferBody encodes the body per the jetton wallet grammar
func BuildTransferBody(p TransferBody) *cell.Cell {
	fwdAmount := p.ForwardAmount
	if fwdAmount == nil {
		fwdAmount = big.NewInt(0)
	}

	b := cell.BeginCell().
		MustStoreUInt(OpTransfer, 32).
		MustStoreUInt(p.QueryID, 64).
		MustStoreBigCoins(p.Amount).
		MustStoreAddr(p.ToAddress).
		MustStoreAddr(p.ResponseAddress).
		MustStoreMaybeRef(p.CustomPayload).
		MustStoreBigCoins(fwdAmount)

	// forward payload always goes into a ref to keep the root cell small
	if p.ForwardPayload != nil {
		b.MustStoreBoolBit(true).MustStoreRef(p.ForwardPayload)
	} else {
		b.MustStoreBoolBit(false)
	}

	return b.EndCell()
}

// BuildCommentPayload wraps a text comment as a forward payload cell
func BuildCommentPayload(comment string) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(commentPrefixPlain, 32).
		MustStoreStringSnake(comment).
		EndCell()
}

// ParsedTransfer is the mirror of TransferBody recovered from an encoded
// payload, used when augmenting a transfer built without mintless awareness
type ParsedTransfer struct {
	QueryID             uint64
	Amount              *big.Int
	Destination         *address.Address
	ResponseDestination *address.Address
	CustomPayload       *cell.Cell
	ForwardAmount       *big.Int
	ForwardPayload      *cell.Cell
}

// ParseTransferPayload decodes a base64 BOC transfer body. Anything that is
// not a well-formed transfer op fails with ErrInvalidPayload.
func ParseTransferPayload(payload string) (*ParsedTransfer, error) {
	c, err := cellFromBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	s := c.BeginParse()

	op, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("%w: missing opcode", ErrInvalidPayload)
	}
	if op != OpTransfer {
		return nil, fmt.Errorf("%w: unexpected opcode 0x%x", ErrInvalidPayload, op)
	}

	p := &ParsedTransfer{}

	if p.QueryID, err = s.LoadUInt(64); err != nil {
		return nil, fmt.Errorf("%w: truncated query id", ErrInvalidPayload)
	}
	if p.Amount, err = s.LoadBigCoins(); err != nil {
		return nil, fmt.Errorf("%w: truncated amount", ErrInvalidPayload)
	}
	if p.Destination, err = s.LoadAddr(); err != nil {
		return nil, fmt.Errorf("%w: truncated destination", ErrInvalidPayload)
	}
	if p.ResponseDestination, err = s.LoadAddr(); err != nil {
		return nil, fmt.Errorf("%w: truncated response destination", ErrInvalidPayload)
	}

	custom, err := s.LoadMaybeRef()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated custom payload", ErrInvalidPayload)
	}
	if custom != nil {
		if p.CustomPayload, err = custom.ToCell(); err != nil {
			return nil, fmt.Errorf("%w: bad custom payload", ErrInvalidPayload)
		}
	}

	if p.ForwardAmount, err = s.LoadBigCoins(); err != nil {
		return nil, fmt.Errorf("%w: truncated forward amount", ErrInvalidPayload)
	}

	fwd, err := loadEitherPayload(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad forward payload", ErrInvalidPayload)
	}
	if fwd != nil {
		if p.ForwardPayload, err = fwd.ToCell(); err != nil {
			return nil, fmt.Errorf("%w: bad forward payload", ErrInvalidPayload)
		}
	}

	return p, nil
}

// CellToBase64 serializes a cell as a base64 BOC
func CellToBase64(c *cell.Cell) string {
	return base64.StdEncoding.EncodeToString(c.ToBOC())
}

// CellFromBase64 deserializes a base64 BOC into a cell
func CellFromBase64(s string) (*cell.Cell, error) {
	return cellFromBase64(s)
}

func cellFromBase64(s string) (*cell.Cell, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("bad base64: %w", err)
		}
	}
	return cell.FromBOC(raw)
}

// loadEitherPayload reads an (Either Cell ^Cell) forward payload. An empty
// inline payload yields nil.
func loadEitherPayload(s *cell.Slice) (*cell.Slice, error) {
	inRef, err := s.LoadBoolBit()
	if err != nil {
		return nil, err
	}
	if inRef {
		return s.LoadRef()
	}
	if s.BitsLeft() == 0 && s.RefsNum() == 0 {
		return nil, nil
	}
	return s, nil
}

// parseComment interprets a forward payload as a plain or encrypted comment
func parseComment(s *cell.Slice) (comment, encrypted string) {
	if s.BitsLeft() < 32 {
		return "", ""
	}
	prefix, err := s.LoadUInt(32)
	if err != nil {
		return "", ""
	}
	switch prefix {
	case commentPrefixPlain:
		text, err := s.LoadStringSnake()
		if err != nil {
			return "", ""
		}
		return text, ""
	case commentPrefixEncrypted:
		data, err := s.LoadBinarySnake()
		if err != nil {
			return "", ""
		}
		return "", base64.StdEncoding.EncodeToString(data)
	}
	return "", ""
}
