package cell

import (
	"golang.org/x/xerrors"
)

// Slice is a forward-only cursor over one cell's bits and references. It is
// single-owner and single-pass: every load consumes, nothing rewinds, and a
// read past the end returns ErrSliceUnderrun.
type Slice struct {
	bits   []byte
	bitsSz int
	refs   []*Cell

	pos    int
	refPos int
}

// RestBits returns the number of unread data bits.
func (s *Slice) RestBits() int {
	return s.bitsSz - s.pos
}

// RestRefs returns the number of unread references.
func (s *Slice) RestRefs() int {
	return len(s.refs) - s.refPos
}

// LoadBit reads a single bit.
func (s *Slice) LoadBit() (bool, error) {
	if s.RestBits() < 1 {
		return false, xerrors.Errorf("load 1 bit with 0 left: %w", ErrSliceUnderrun)
	}
	bit := s.bits[s.pos/8]&(1<<(7-uint(s.pos%8))) != 0
	s.pos++
	return bit, nil
}

// LoadBits reads sz bits into a byte buffer, most significant bit first. A
// partial trailing byte is zero padded.
func (s *Slice) LoadBits(sz int) ([]byte, error) {
	if sz < 0 || s.RestBits() < sz {
		return nil, xerrors.Errorf("load %d bits with %d left: %w", sz, s.RestBits(), ErrSliceUnderrun)
	}
	out := make([]byte, (sz+7)/8)
	for i := 0; i < sz; i++ {
		if s.bits[s.pos/8]&(1<<(7-uint(s.pos%8))) != 0 {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
		s.pos++
	}
	return out, nil
}

// LoadBytes reads n whole bytes.
func (s *Slice) LoadBytes(n int) ([]byte, error) {
	return s.LoadBits(n * 8)
}

// LoadUint reads an unsigned big-endian integer of sz bits, sz up to 64.
func (s *Slice) LoadUint(sz int) (uint64, error) {
	if sz < 0 || sz > 64 {
		return 0, xerrors.Errorf("uint of %d bits: %w", sz, ErrTooBigValue)
	}
	raw, err := s.LoadBits(sz)
	if err != nil {
		return 0, err
	}
	v := uint64(0)
	for i := 0; i < sz; i++ {
		v <<= 1
		if raw[i/8]&(1<<(7-uint(i%8))) != 0 {
			v |= 1
		}
	}
	return v, nil
}

// LoadRef consumes the next child reference and returns the referenced cell.
func (s *Slice) LoadRef() (*Cell, error) {
	if s.RestRefs() < 1 {
		return nil, xerrors.Errorf("load ref with 0 left: %w", ErrSliceUnderrun)
	}
	r := s.refs[s.refPos]
	s.refPos++
	return r, nil
}

// ToCell repackages the unread remainder of the slice, bits and references,
// as a new cell. The slice is fully consumed afterwards.
func (s *Slice) ToCell() (*Cell, error) {
	sz := s.RestBits()
	raw, err := s.LoadBits(sz)
	if err != nil {
		return nil, err
	}
	b := BeginCell()
	if err := b.StoreBits(raw, sz); err != nil {
		return nil, err
	}
	for s.RestRefs() > 0 {
		r, err := s.LoadRef()
		if err != nil {
			return nil, err
		}
		if err := b.StoreRef(r); err != nil {
			return nil, err
		}
	}
	return b.EndCell(), nil
}
