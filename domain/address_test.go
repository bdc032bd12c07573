package domain

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tonscope/goapi/base/cell"
)

const (
	testAccountHex = "83dfd552e63929b1fb8cc074b1aee99e1f8d1a224a41b07e936c229ab3dcb67e"
	testRawAddr    = "0:" + testAccountHex
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		desc  string
		input string
		exp   Address
	}{
		{
			desc:  "raw form",
			input: testRawAddr,
			exp:   Address(testRawAddr),
		},
		{
			desc:  "raw form upper case hex",
			input: "0:83DFD552E63929B1FB8CC074B1AEE99E1F8D1A224A41B07E936C229AB3DCB67E",
			exp:   Address(testRawAddr),
		},
		{
			desc:  "friendly bounceable",
			input: "EQCD39VS5jkpsfuMwHSxrumeH40aIkpBsH6TbCKas9y2fkpz",
			exp:   Address(testRawAddr),
		},
		{
			desc:  "friendly non-bounceable",
			input: "UQCD39VS5jkpsfuMwHSxrumeH40aIkpBsH6TbCKas9y2fhe2",
			exp:   Address(testRawAddr),
		},
		{
			desc:  "friendly masterchain",
			input: "Ef8zMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzM0vF",
			exp:   Address("-1:3333333333333333333333333333333333333333333333333333333333333333"),
		},
	}
	for _, tc := range tests {
		got, err := ParseAddress(tc.input)
		require.NoError(t, err, tc.desc)
		require.Equal(t, tc.exp, got, tc.desc)
	}
}

func TestParseAddressRejectsMalformed(t *testing.T) {
	tests := []struct {
		desc  string
		input string
	}{
		{desc: "empty", input: ""},
		{desc: "short hex", input: "0:123"},
		{desc: "bad hex", input: "0:zz00000000000000000000000000000000000000000000000000000000000000"},
		{desc: "bad workchain", input: "x:" + testAccountHex},
		{desc: "wrong friendly length", input: "EQCD39VS5jkpsfuMwHSxrumeH40aIkpBsH6TbCKas9y2fkp"},
		{desc: "corrupted checksum", input: "EQCD39VS5jkpsfuMwHSxrumeH40aIkpBsH6TbCKas9y2fkpA"},
	}
	for _, tc := range tests {
		_, err := ParseAddress(tc.input)
		require.ErrorIs(t, err, ErrInvalidAddress, tc.desc)
	}
}

func TestAddressToFriendly(t *testing.T) {
	req := require.New(t)

	addr := Address(testRawAddr)
	req.Equal("EQCD39VS5jkpsfuMwHSxrumeH40aIkpBsH6TbCKas9y2fkpz", addr.ToFriendly(true, false))
	req.Equal("UQCD39VS5jkpsfuMwHSxrumeH40aIkpBsH6TbCKas9y2fhe2", addr.ToFriendly(false, false))

	req.Equal(int32(0), addr.Workchain())
	req.Equal(testAccountHex, hex.EncodeToString(addr.AccountId()))

	master := Address("-1:3333333333333333333333333333333333333333333333333333333333333333")
	req.Equal(int32(-1), master.Workchain())
	req.Equal("Ef8zMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzM0vF", master.ToFriendly(true, false))

	req.Empty(EmptyAddress.ToFriendly(true, false))
	req.True(EmptyAddress.IsEmpty())
}

func TestAddressFromCell(t *testing.T) {
	req := require.New(t)

	// addr_none$00
	none := cell.BeginCell()
	req.NoError(none.StoreUint(0, 2))
	got, err := AddressFromCell(none.EndCell())
	req.NoError(err)
	req.True(got.IsEmpty())

	// addr_std$10 anycast:0 workchain:0 account:32 bytes
	std := cell.BeginCell()
	req.NoError(std.StoreUint(2, 2))
	req.NoError(std.StoreBit(false))
	req.NoError(std.StoreUint(0, 8))
	id, err := hex.DecodeString(testAccountHex)
	req.NoError(err)
	req.NoError(std.StoreBytes(id))
	got, err = AddressFromCell(std.EndCell())
	req.NoError(err)
	req.Equal(Address(testRawAddr), got)

	// masterchain workchain byte
	master := cell.BeginCell()
	req.NoError(master.StoreUint(2, 2))
	req.NoError(master.StoreBit(false))
	req.NoError(master.StoreUint(0xff, 8))
	req.NoError(master.StoreBytes(id))
	got, err = AddressFromCell(master.EndCell())
	req.NoError(err)
	req.Equal(int32(-1), got.Workchain())

	// anycast is outside the supported forms
	anycast := cell.BeginCell()
	req.NoError(anycast.StoreUint(2, 2))
	req.NoError(anycast.StoreBit(true))
	_, err = AddressFromCell(anycast.EndCell())
	req.ErrorIs(err, ErrInvalidAddress)

	// addr_extern$01
	extern := cell.BeginCell()
	req.NoError(extern.StoreUint(1, 2))
	_, err = AddressFromCell(extern.EndCell())
	req.ErrorIs(err, ErrInvalidAddress)
}
