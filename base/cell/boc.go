package cell

import (
	"encoding/binary"
	"hash/crc32"
	"math/bits"

	"golang.org/x/xerrors"
)

// serialized_boc#b5ee9c72, the standard single-root exchange format. The
// decoder accepts the common layout produced by node APIs: optional index,
// optional crc32c trailer, ordinary level-0 cells only.

var (
	bocMagic    = [4]byte{0xb5, 0xee, 0x9c, 0x72}
	crc32cTable = crc32.MakeTable(crc32.Castagnoli)
)

type bocReader struct {
	data []byte
	pos  int
}

func (r *bocReader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, xerrors.Errorf("boc truncated at byte %d: %w", r.pos, ErrInvalidBOC)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *bocReader) byte() (byte, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *bocReader) uint(n int) (int, error) {
	raw, err := r.bytes(n)
	if err != nil {
		return 0, err
	}
	v := 0
	for _, b := range raw {
		v = v<<8 | int(b)
	}
	return v, nil
}

// FromBOC parses a bag-of-cells payload and returns its first root cell.
func FromBOC(data []byte) (*Cell, error) {
	r := &bocReader{data: data}

	magic, err := r.bytes(4)
	if err != nil {
		return nil, err
	}
	if [4]byte(magic) != bocMagic {
		return nil, xerrors.Errorf("bad magic %x: %w", magic, ErrInvalidBOC)
	}

	flags, err := r.byte()
	if err != nil {
		return nil, err
	}
	hasIdx := flags&0x80 != 0
	hasCrc := flags&0x40 != 0
	sizeBytes := int(flags & 7)
	if sizeBytes < 1 || sizeBytes > 4 {
		return nil, xerrors.Errorf("ref size of %d bytes: %w", sizeBytes, ErrInvalidBOC)
	}

	offBytes, err := r.byte()
	if err != nil {
		return nil, err
	}
	if offBytes < 1 || offBytes > 8 {
		return nil, xerrors.Errorf("offset size of %d bytes: %w", offBytes, ErrInvalidBOC)
	}

	cellsNum, err := r.uint(sizeBytes)
	if err != nil {
		return nil, err
	}
	rootsNum, err := r.uint(sizeBytes)
	if err != nil {
		return nil, err
	}
	absentNum, err := r.uint(sizeBytes)
	if err != nil {
		return nil, err
	}
	totCellsSize, err := r.uint(int(offBytes))
	if err != nil {
		return nil, err
	}
	if rootsNum < 1 || cellsNum < 1 {
		return nil, xerrors.Errorf("%d cells %d roots: %w", cellsNum, rootsNum, ErrInvalidBOC)
	}
	if absentNum != 0 {
		return nil, xerrors.Errorf("%d absent cells: %w", absentNum, ErrInvalidBOC)
	}

	roots := make([]int, rootsNum)
	for i := range roots {
		idx, err := r.uint(sizeBytes)
		if err != nil {
			return nil, err
		}
		if idx >= cellsNum {
			return nil, xerrors.Errorf("root index %d of %d cells: %w", idx, cellsNum, ErrInvalidBOC)
		}
		roots[i] = idx
	}

	if hasIdx {
		if _, err := r.bytes(cellsNum * int(offBytes)); err != nil {
			return nil, err
		}
	}

	payload, err := r.bytes(totCellsSize)
	if err != nil {
		return nil, err
	}

	if hasCrc {
		covered := data[:r.pos]
		trailer, err := r.bytes(4)
		if err != nil {
			return nil, err
		}
		sum := crc32.Checksum(covered, crc32cTable)
		if binary.LittleEndian.Uint32(trailer) != sum {
			return nil, xerrors.Errorf("crc mismatch: %w", ErrInvalidBOC)
		}
	}
	if r.pos != len(data) {
		return nil, xerrors.Errorf("%d trailing bytes: %w", len(data)-r.pos, ErrInvalidBOC)
	}

	type rawCell struct {
		bits   []byte
		bitsSz int
		refs   []int
	}

	cr := &bocReader{data: payload}
	raw := make([]rawCell, cellsNum)
	for i := 0; i < cellsNum; i++ {
		d1, err := cr.byte()
		if err != nil {
			return nil, err
		}
		if d1&8 != 0 || d1>>5 != 0 {
			return nil, xerrors.Errorf("exotic or leveled cell %d: %w", i, ErrInvalidBOC)
		}
		refsNum := int(d1 & 7)
		if refsNum > MaxRefs {
			return nil, xerrors.Errorf("cell %d with %d refs: %w", i, refsNum, ErrInvalidBOC)
		}

		d2, err := cr.byte()
		if err != nil {
			return nil, err
		}
		dataLen := (int(d2) + 1) / 2
		data, err := cr.bytes(dataLen)
		if err != nil {
			return nil, err
		}
		cellBits := make([]byte, dataLen)
		copy(cellBits, data)

		bitsSz := dataLen * 8
		if d2%2 != 0 {
			// partial trailing byte, locate and clear the completion tag
			last := cellBits[dataLen-1]
			if last == 0 {
				return nil, xerrors.Errorf("cell %d missing completion tag: %w", i, ErrInvalidBOC)
			}
			tag := bits.TrailingZeros8(last)
			cellBits[dataLen-1] &^= 1 << uint(tag)
			bitsSz = (dataLen-1)*8 + (7 - tag)
		}

		refs := make([]int, refsNum)
		for j := range refs {
			idx, err := cr.uint(sizeBytes)
			if err != nil {
				return nil, err
			}
			if idx <= i || idx >= cellsNum {
				return nil, xerrors.Errorf("cell %d ref %d out of order: %w", i, idx, ErrInvalidBOC)
			}
			refs[j] = idx
		}
		raw[i] = rawCell{bits: cellBits, bitsSz: bitsSz, refs: refs}
	}
	if cr.pos != len(payload) {
		return nil, xerrors.Errorf("%d stray payload bytes: %w", len(payload)-cr.pos, ErrInvalidBOC)
	}

	// refs point forward, so build back to front
	built := make([]*Cell, cellsNum)
	for i := cellsNum - 1; i >= 0; i-- {
		refs := make([]*Cell, len(raw[i].refs))
		for j, idx := range raw[i].refs {
			refs[j] = built[idx]
		}
		built[i] = &Cell{bits: raw[i].bits, bitsSz: raw[i].bitsSz, refs: refs}
	}
	return built[roots[0]], nil
}

// ToBOC serializes the cell and everything below it as a single-root bag of
// cells with a crc32c trailer. Shared subtrees are stored once.
func (c *Cell) ToBOC() []byte {
	type entry struct {
		cell  *Cell
		inDeg int
	}
	index := map[string]*entry{}
	var collect func(c *Cell)
	collect = func(c *Cell) {
		h := string(c.Hash())
		if _, ok := index[h]; ok {
			return
		}
		index[h] = &entry{cell: c}
		for _, r := range c.refs {
			collect(r)
		}
	}
	collect(c)
	for _, e := range index {
		for _, r := range e.cell.refs {
			index[string(r.Hash())].inDeg++
		}
	}

	// order parents before children so refs point forward
	queue := []*entry{index[string(c.Hash())]}
	order := make([]*entry, 0, len(index))
	pos := map[string]int{}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		pos[string(e.cell.Hash())] = len(order)
		order = append(order, e)
		for _, r := range e.cell.refs {
			child := index[string(r.Hash())]
			child.inDeg--
			if child.inDeg == 0 {
				queue = append(queue, child)
			}
		}
	}

	cellsNum := len(order)
	sizeBytes := 1
	for cellsNum > 1<<(8*sizeBytes) {
		sizeBytes++
	}

	var payload []byte
	for _, e := range order {
		payload = append(payload, e.cell.descriptors()...)
		payload = append(payload, e.cell.paddedData()...)
		for _, r := range e.cell.refs {
			payload = appendUintN(payload, uint64(pos[string(r.Hash())]), sizeBytes)
		}
	}

	offBytes := 1
	for len(payload) >= 1<<(8*offBytes) {
		offBytes++
	}

	out := make([]byte, 0, len(payload)+16)
	out = append(out, bocMagic[:]...)
	out = append(out, 0x40|byte(sizeBytes)) // crc32c trailer, no index
	out = append(out, byte(offBytes))
	out = appendUintN(out, uint64(cellsNum), sizeBytes)
	out = appendUintN(out, 1, sizeBytes) // roots
	out = appendUintN(out, 0, sizeBytes) // absent
	out = appendUintN(out, uint64(len(payload)), offBytes)
	out = appendUintN(out, 0, sizeBytes) // root index
	out = append(out, payload...)

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], crc32.Checksum(out, crc32cTable))
	return append(out, trailer[:]...)
}

func appendUintN(dst []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}
