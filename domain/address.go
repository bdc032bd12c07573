package domain

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/tonscope/goapi/base/cell"
)

// Address is a TON account address in raw form, "workchain:hex". Values are
// normalized at parse time, so equal addresses compare equal. The empty
// value stands for addr_none.
type Address string

const EmptyAddress = Address("")

// friendly form tag bytes
const (
	addrTagBounceable    = 0x11
	addrTagNonBounceable = 0x51
	addrTagTestOnly      = 0x80
)

// ParseAddress accepts the raw "workchain:hex" form and the 48-char base64
// user-friendly form, returning the normalized raw address.
func ParseAddress(s string) (Address, error) {
	if strings.Contains(s, ":") {
		return parseRawAddress(s)
	}
	return parseFriendlyAddress(s)
}

func parseRawAddress(s string) (Address, error) {
	parts := strings.SplitN(s, ":", 2)
	wc, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return EmptyAddress, xerrors.Errorf("workchain %q: %w", parts[0], ErrInvalidAddress)
	}
	h := strings.ToLower(parts[1])
	raw, err := hex.DecodeString(h)
	if err != nil || len(raw) != 32 {
		return EmptyAddress, xerrors.Errorf("account id %q: %w", parts[1], ErrInvalidAddress)
	}
	return Address(fmt.Sprintf("%d:%s", wc, h)), nil
}

func parseFriendlyAddress(s string) (Address, error) {
	if len(s) != 48 {
		return EmptyAddress, xerrors.Errorf("friendly form of %d chars: %w", len(s), ErrInvalidAddress)
	}
	// both the url-safe and the standard alphabet circulate
	normalized := strings.NewReplacer("-", "+", "_", "/").Replace(s)
	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil || len(raw) != 36 {
		return EmptyAddress, xerrors.Errorf("friendly form: %v: %w", err, ErrInvalidAddress)
	}

	// tag(1) workchain(1) account(32) crc(2)
	if crc16(raw[:34]) != uint16(raw[34])<<8|uint16(raw[35]) {
		return EmptyAddress, xerrors.Errorf("friendly form checksum: %w", ErrInvalidAddress)
	}
	tag := raw[0] &^ addrTagTestOnly
	if tag != addrTagBounceable && tag != addrTagNonBounceable {
		return EmptyAddress, xerrors.Errorf("friendly form tag %#x: %w", raw[0], ErrInvalidAddress)
	}
	return NewAddress(int32(int8(raw[1])), raw[2:34])
}

// NewAddress builds a raw address from a workchain and a 32-byte account id.
func NewAddress(workchain int32, accountId []byte) (Address, error) {
	if len(accountId) != 32 {
		return EmptyAddress, xerrors.Errorf("account id of %d bytes: %w", len(accountId), ErrInvalidAddress)
	}
	return Address(fmt.Sprintf("%d:%s", workchain, hex.EncodeToString(accountId))), nil
}

// AddressFromCell decodes a MsgAddress at the start of the cell. addr_none
// yields the empty address; anycast, extern and var forms are unsupported.
func AddressFromCell(c *cell.Cell) (Address, error) {
	s := c.BeginParse()
	tag, err := s.LoadUint(2)
	if err != nil {
		return EmptyAddress, xerrors.Errorf("address tag: %v: %w", err, ErrInvalidAddress)
	}
	switch tag {
	case 0: // addr_none$00
		return EmptyAddress, nil
	case 2: // addr_std$10
		anycast, err := s.LoadBit()
		if err != nil {
			return EmptyAddress, xerrors.Errorf("address anycast bit: %v: %w", err, ErrInvalidAddress)
		}
		if anycast {
			return EmptyAddress, xerrors.Errorf("anycast address: %w", ErrInvalidAddress)
		}
		wc, err := s.LoadUint(8)
		if err != nil {
			return EmptyAddress, xerrors.Errorf("address workchain: %v: %w", err, ErrInvalidAddress)
		}
		id, err := s.LoadBytes(32)
		if err != nil {
			return EmptyAddress, xerrors.Errorf("address account id: %v: %w", err, ErrInvalidAddress)
		}
		return NewAddress(int32(int8(wc)), id)
	default:
		return EmptyAddress, xerrors.Errorf("address tag %d: %w", tag, ErrInvalidAddress)
	}
}

func (a Address) String() string {
	return string(a)
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return strings.EqualFold(string(a), string(b))
}

// Workchain returns the workchain id, 0 for malformed values.
func (a Address) Workchain() int32 {
	parts := strings.SplitN(string(a), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	wc, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return 0
	}
	return int32(wc)
}

// AccountId returns the 32-byte account id, nil for malformed values.
func (a Address) AccountId() []byte {
	parts := strings.SplitN(string(a), ":", 2)
	if len(parts) != 2 {
		return nil
	}
	raw, err := hex.DecodeString(parts[1])
	if err != nil || len(raw) != 32 {
		return nil
	}
	return raw
}

// ToFriendly renders the 48-char base64url user-facing form, "" for
// malformed values.
func (a Address) ToFriendly(bounceable, testOnly bool) string {
	id := a.AccountId()
	if id == nil {
		return ""
	}
	tag := byte(addrTagNonBounceable)
	if bounceable {
		tag = addrTagBounceable
	}
	if testOnly {
		tag |= addrTagTestOnly
	}
	data := make([]byte, 0, 36)
	data = append(data, tag, byte(int8(a.Workchain())))
	data = append(data, id...)
	crc := crc16(data)
	data = append(data, byte(crc>>8), byte(crc))
	return base64.URLEncoding.EncodeToString(data)
}

// crc16 is the CCITT/XMODEM variant the friendly form checksums with.
func crc16(data []byte) uint16 {
	crc := uint16(0)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
