package cell

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderSliceRoundTrip(t *testing.T) {
	req := require.New(t)

	b := BeginCell()
	req.NoError(b.StoreUint(0x01, 8))
	req.NoError(b.StoreBit(true))
	req.NoError(b.StoreBits([]byte{0xff, 0x80}, 9))
	req.NoError(b.StoreBytes([]byte("ton")))
	ref := BeginCell().EndCell()
	req.NoError(b.StoreRef(ref))
	c := b.EndCell()

	req.Equal(8+1+9+24, c.BitsCount())
	req.Equal(1, c.RefsCount())

	s := c.BeginParse()
	v, err := s.LoadUint(8)
	req.NoError(err)
	req.Equal(uint64(0x01), v)

	bit, err := s.LoadBit()
	req.NoError(err)
	req.True(bit)

	raw, err := s.LoadBits(9)
	req.NoError(err)
	req.Equal([]byte{0xff, 0x80}, raw)

	txt, err := s.LoadBytes(3)
	req.NoError(err)
	req.Equal([]byte("ton"), txt)

	req.Equal(0, s.RestBits())
	req.Equal(1, s.RestRefs())

	r, err := s.LoadRef()
	req.NoError(err)
	req.Equal(0, r.BitsCount())
	req.Equal(0, s.RestRefs())
}

func TestSliceUnderrun(t *testing.T) {
	req := require.New(t)

	b := BeginCell()
	req.NoError(b.StoreUint(0xab, 8))
	c := b.EndCell()

	s := c.BeginParse()
	_, err := s.LoadBits(9)
	req.ErrorIs(err, ErrSliceUnderrun)

	// the failed read must not consume anything
	v, err := s.LoadUint(8)
	req.NoError(err)
	req.Equal(uint64(0xab), v)

	_, err = s.LoadBit()
	req.ErrorIs(err, ErrSliceUnderrun)
	_, err = s.LoadRef()
	req.ErrorIs(err, ErrSliceUnderrun)
}

func TestBuilderLimits(t *testing.T) {
	req := require.New(t)

	b := BeginCell()
	req.NoError(b.StoreBits(make([]byte, 128), MaxBits))
	req.Equal(0, b.BitsLeft())
	req.ErrorIs(b.StoreBit(true), ErrCellOverflow)

	b = BeginCell()
	ref := BeginCell().EndCell()
	for i := 0; i < MaxRefs; i++ {
		req.NoError(b.StoreRef(ref))
	}
	req.ErrorIs(b.StoreRef(ref), ErrCellOverflow)

	req.ErrorIs(BeginCell().StoreUint(256, 8), ErrTooBigValue)
	req.ErrorIs(BeginCell().StoreUint(0, 65), ErrTooBigValue)
	req.ErrorIs(BeginCell().StoreBits([]byte{0xff}, 9), ErrTooBigValue)
}

func TestHashKnownVectors(t *testing.T) {
	req := require.New(t)

	// the canonical empty cell
	empty := BeginCell().EndCell()
	req.Equal(
		"96a296d224f285c67bee93c30f8a309157f0daa35dc5b87e410b78630a09cfc7",
		hex.EncodeToString(empty.Hash()),
	)

	// partial trailing byte plus one reference
	child := BeginCell()
	req.NoError(child.StoreUint(0xab, 8))
	parent := BeginCell()
	req.NoError(parent.StoreBits([]byte{0xa0}, 3))
	req.NoError(parent.StoreRef(child.EndCell()))
	c := parent.EndCell()
	req.Equal(1, c.Depth())
	req.Equal(
		"17c8648e740ad0656221b7db1cf542b4706099519345d171874799e5d53d25b6",
		hex.EncodeToString(c.Hash()),
	)
}

func TestToCellRepackagesRemainder(t *testing.T) {
	req := require.New(t)

	ref := BeginCell().EndCell()
	b := BeginCell()
	req.NoError(b.StoreUint(0xdead, 16))
	req.NoError(b.StoreRef(ref))

	s := b.EndCell().BeginParse()
	_, err := s.LoadUint(8)
	req.NoError(err)

	rest, err := s.ToCell()
	req.NoError(err)
	req.Equal(8, rest.BitsCount())
	req.Equal(1, rest.RefsCount())

	rs := rest.BeginParse()
	v, err := rs.LoadUint(8)
	req.NoError(err)
	req.Equal(uint64(0xad), v)

	// the source slice is spent
	req.Equal(0, s.RestBits())
	req.Equal(0, s.RestRefs())
}
