package cell

import (
	"golang.org/x/xerrors"
)

// Builder assembles a cell bit by bit. Store calls fail once the bit or
// reference capacity would be exceeded, so EndCell itself cannot fail.
type Builder struct {
	bits   []byte
	bitsSz int
	refs   []*Cell
}

// BeginCell starts an empty builder.
func BeginCell() *Builder {
	return &Builder{}
}

// BitsLeft returns the remaining data bit capacity.
func (b *Builder) BitsLeft() int {
	return MaxBits - b.bitsSz
}

// RefsLeft returns the remaining reference capacity.
func (b *Builder) RefsLeft() int {
	return MaxRefs - len(b.refs)
}

// appendBit writes one bit without a capacity check. Trailing bits of the
// backing byte stay zero, which paddedData relies on.
func (b *Builder) appendBit(v bool) {
	if b.bitsSz%8 == 0 {
		b.bits = append(b.bits, 0)
	}
	if v {
		b.bits[b.bitsSz/8] |= 1 << (7 - uint(b.bitsSz%8))
	}
	b.bitsSz++
}

// StoreBit appends a single bit.
func (b *Builder) StoreBit(v bool) error {
	if b.BitsLeft() < 1 {
		return xerrors.Errorf("store 1 bit with 0 left: %w", ErrCellOverflow)
	}
	b.appendBit(v)
	return nil
}

// StoreBits appends sz bits read from src, most significant bit first.
func (b *Builder) StoreBits(src []byte, sz int) error {
	if sz < 0 || sz > len(src)*8 {
		return xerrors.Errorf("store %d bits from %d bytes: %w", sz, len(src), ErrTooBigValue)
	}
	if b.BitsLeft() < sz {
		return xerrors.Errorf("store %d bits with %d left: %w", sz, b.BitsLeft(), ErrCellOverflow)
	}
	for i := 0; i < sz; i++ {
		b.appendBit(src[i/8]&(1<<(7-uint(i%8))) != 0)
	}
	return nil
}

// StoreBytes appends whole bytes.
func (b *Builder) StoreBytes(p []byte) error {
	return b.StoreBits(p, len(p)*8)
}

// StoreUint appends an unsigned big-endian integer of sz bits, sz up to 64.
func (b *Builder) StoreUint(v uint64, sz int) error {
	if sz < 0 || sz > 64 {
		return xerrors.Errorf("uint of %d bits: %w", sz, ErrTooBigValue)
	}
	if sz < 64 && v >= 1<<uint(sz) {
		return xerrors.Errorf("%d does not fit %d bits: %w", v, sz, ErrTooBigValue)
	}
	if b.BitsLeft() < sz {
		return xerrors.Errorf("store %d bits with %d left: %w", sz, b.BitsLeft(), ErrCellOverflow)
	}
	for i := sz - 1; i >= 0; i-- {
		b.appendBit(v&(1<<uint(i)) != 0)
	}
	return nil
}

// StoreRef appends a child reference.
func (b *Builder) StoreRef(c *Cell) error {
	if c == nil {
		return xerrors.New("store nil ref")
	}
	if b.RefsLeft() < 1 {
		return xerrors.Errorf("store ref with 0 left: %w", ErrCellOverflow)
	}
	b.refs = append(b.refs, c)
	return nil
}

// EndCell seals the builder into an immutable cell. The builder must not be
// reused afterwards.
func (b *Builder) EndCell() *Cell {
	bits := make([]byte, (b.bitsSz+7)/8)
	copy(bits, b.bits)
	refs := make([]*Cell, len(b.refs))
	copy(refs, b.refs)
	return &Cell{bits: bits, bitsSz: b.bitsSz, refs: refs}
}
