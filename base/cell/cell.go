/*Package cell implements the TVM cell model needed by the content decoder:
immutable cells of up to 1023 data bits and 4 references, single-pass read
slices, a builder, fixed-width-key dictionaries and the standard bag-of-cells
exchange format.
*/
package cell

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

const (
	// MaxBits is the data capacity of a single cell
	MaxBits = 1023
	// MaxRefs is the reference capacity of a single cell
	MaxRefs = 4
)

var (
	// ErrSliceUnderrun signals a read past the bits or references left in a slice
	ErrSliceUnderrun = errors.New("slice underrun")
	// ErrCellOverflow signals a store past the cell's bit or reference capacity
	ErrCellOverflow = errors.New("cell overflow")
	// ErrTooBigValue signals a value that does not fit the requested bit width
	ErrTooBigValue = errors.New("value does not fit")
	// ErrDictionaryDecode signals a malformed serialized dictionary
	ErrDictionaryDecode = errors.New("dictionary decode error")
	// ErrInvalidBOC signals a malformed bag-of-cells payload
	ErrInvalidBOC = errors.New("invalid bag of cells")
)

// Cell is an immutable tree node: an ordered bit string plus up to four
// ordered references to child cells. Cells come out of a Builder or the
// bag-of-cells decoder and are never mutated afterwards, so they are safe to
// share across concurrent decodes.
type Cell struct {
	bits   []byte
	bitsSz int
	refs   []*Cell
}

// BitsCount returns the number of data bits stored in the cell.
func (c *Cell) BitsCount() int {
	return c.bitsSz
}

// RefsCount returns the number of child references.
func (c *Cell) RefsCount() int {
	return len(c.refs)
}

// BeginParse opens a fresh single-pass cursor over the cell.
func (c *Cell) BeginParse() *Slice {
	return &Slice{bits: c.bits, bitsSz: c.bitsSz, refs: c.refs}
}

// Depth returns the longest reference path below the cell, 0 for a leaf.
func (c *Cell) Depth() int {
	d := 0
	for _, r := range c.refs {
		if rd := r.Depth() + 1; rd > d {
			d = rd
		}
	}
	return d
}

// Hash returns the standard representation hash of the cell: the sha256 of
// its descriptors, padded data, and the depths and hashes of its references.
func (c *Cell) Hash() []byte {
	repr := make([]byte, 0, 2+len(c.bits)+len(c.refs)*34)
	repr = append(repr, c.descriptors()...)
	repr = append(repr, c.paddedData()...)
	for _, r := range c.refs {
		var depth [2]byte
		binary.BigEndian.PutUint16(depth[:], uint16(r.Depth()))
		repr = append(repr, depth[:]...)
	}
	for _, r := range c.refs {
		repr = append(repr, r.Hash()...)
	}
	h := sha256.Sum256(repr)
	return h[:]
}

// descriptors returns the d1/d2 bytes of an ordinary level-0 cell.
func (c *Cell) descriptors() []byte {
	d1 := byte(len(c.refs))
	d2 := byte(c.bitsSz/8 + (c.bitsSz+7)/8)
	return []byte{d1, d2}
}

// paddedData returns the data bits as whole bytes. A partial trailing byte
// carries the completion tag: a 1 right after the last data bit, zeroes below.
// The builder keeps bits past bitsSz zeroed, which this relies on.
func (c *Cell) paddedData() []byte {
	data := make([]byte, (c.bitsSz+7)/8)
	copy(data, c.bits)
	if c.bitsSz%8 != 0 {
		data[len(data)-1] |= 1 << (7 - uint(c.bitsSz%8))
	}
	return data
}
