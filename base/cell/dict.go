package cell

import (
	"encoding/hex"
	"math/bits"
	"sort"

	"golang.org/x/xerrors"
)

// The serialized dictionary is a prefix-compressed binary trie over the key
// bits (Hashmap in TL-B terms), wrapped in a maybe-reference (HashmapE).
// Every edge starts with a label in one of three encodings:
//
//	hml_short$0  unary length, then the label bits
//	hml_long$10  big-endian length of ceil(log2(m+1)) bits, then the bits
//	hml_same$11  one repeated bit and its count
//
// where m is the number of key bits left below the edge. A label that
// exhausts the key ends in a leaf whose remainder is the value; otherwise the
// edge forks into exactly two references, bit 0 left, bit 1 right.

// LoadDict reads a dictionary with fixed-width keys from the slice: a
// leading 0 bit is the empty dictionary, a 1 bit is followed by a reference
// to the root edge. Keys are returned hex encoded, values are each leaf's
// remainder repackaged as a cell.
func LoadDict(s *Slice, keyBits int) (map[string]*Cell, error) {
	entries := map[string]*Cell{}
	has, err := s.LoadBit()
	if err != nil {
		return nil, xerrors.Errorf("dict maybe bit: %v: %w", err, ErrDictionaryDecode)
	}
	if !has {
		return entries, nil
	}
	root, err := s.LoadRef()
	if err != nil {
		return nil, xerrors.Errorf("dict root ref: %v: %w", err, ErrDictionaryDecode)
	}
	if err := loadDictEdge(root.BeginParse(), nil, keyBits, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// loadDictEdge walks one edge. prefix holds the key bits accumulated above
// this edge, one bit per byte.
func loadDictEdge(s *Slice, prefix []byte, keyBits int, entries map[string]*Cell) error {
	m := keyBits - len(prefix)
	label, err := loadLabel(s, m)
	if err != nil {
		return err
	}
	prefix = append(prefix, label...)

	if len(prefix) == keyBits {
		v, err := s.ToCell()
		if err != nil {
			return xerrors.Errorf("dict leaf value: %v: %w", err, ErrDictionaryDecode)
		}
		entries[bitsToHexKey(prefix)] = v
		return nil
	}

	if s.RestRefs() < 2 {
		return xerrors.Errorf("dict fork with %d refs: %w", s.RestRefs(), ErrDictionaryDecode)
	}
	left, err := s.LoadRef()
	if err != nil {
		return xerrors.Errorf("dict fork left: %v: %w", err, ErrDictionaryDecode)
	}
	right, err := s.LoadRef()
	if err != nil {
		return xerrors.Errorf("dict fork right: %v: %w", err, ErrDictionaryDecode)
	}

	leftPrefix := append(append([]byte{}, prefix...), 0)
	rightPrefix := append(append([]byte{}, prefix...), 1)
	if err := loadDictEdge(left.BeginParse(), leftPrefix, keyBits, entries); err != nil {
		return err
	}
	return loadDictEdge(right.BeginParse(), rightPrefix, keyBits, entries)
}

// loadLabel reads one edge label and returns its bits, one bit per byte. m
// bounds the label length; anything longer is malformed.
func loadLabel(s *Slice, m int) ([]byte, error) {
	first, err := s.LoadBit()
	if err != nil {
		return nil, xerrors.Errorf("dict label tag: %v: %w", err, ErrDictionaryDecode)
	}

	if !first { // hml_short$0
		n := 0
		for {
			bit, err := s.LoadBit()
			if err != nil {
				return nil, xerrors.Errorf("dict short label length: %v: %w", err, ErrDictionaryDecode)
			}
			if !bit {
				break
			}
			n++
			if n > m {
				return nil, xerrors.Errorf("dict short label of %d bits exceeds %d: %w", n, m, ErrDictionaryDecode)
			}
		}
		return loadLabelBits(s, n)
	}

	same, err := s.LoadBit()
	if err != nil {
		return nil, xerrors.Errorf("dict label tag: %v: %w", err, ErrDictionaryDecode)
	}

	if !same { // hml_long$10
		n, err := s.LoadUint(lenBits(m))
		if err != nil {
			return nil, xerrors.Errorf("dict long label length: %v: %w", err, ErrDictionaryDecode)
		}
		if int(n) > m {
			return nil, xerrors.Errorf("dict long label of %d bits exceeds %d: %w", n, m, ErrDictionaryDecode)
		}
		return loadLabelBits(s, int(n))
	}

	// hml_same$11
	repeated, err := s.LoadBit()
	if err != nil {
		return nil, xerrors.Errorf("dict same label bit: %v: %w", err, ErrDictionaryDecode)
	}
	n, err := s.LoadUint(lenBits(m))
	if err != nil {
		return nil, xerrors.Errorf("dict same label length: %v: %w", err, ErrDictionaryDecode)
	}
	if int(n) > m {
		return nil, xerrors.Errorf("dict same label of %d bits exceeds %d: %w", n, m, ErrDictionaryDecode)
	}
	label := make([]byte, n)
	if repeated {
		for i := range label {
			label[i] = 1
		}
	}
	return label, nil
}

func loadLabelBits(s *Slice, n int) ([]byte, error) {
	label := make([]byte, n)
	for i := 0; i < n; i++ {
		bit, err := s.LoadBit()
		if err != nil {
			return nil, xerrors.Errorf("dict label bits: %v: %w", err, ErrDictionaryDecode)
		}
		if bit {
			label[i] = 1
		}
	}
	return label, nil
}

// lenBits is the width needed to express a label length in 0..m.
func lenBits(m int) int {
	return bits.Len(uint(m))
}

func bitsToHexKey(keyBits []byte) string {
	out := make([]byte, (len(keyBits)+7)/8)
	for i, b := range keyBits {
		if b != 0 {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return hex.EncodeToString(out)
}

type dictItem struct {
	key   []byte // one bit per byte, keyBits wide
	value *Cell
}

// StoreDict appends the entries as a maybe-referenced dictionary with
// fixed-width hex keys, the inverse of LoadDict. Values are stored inline in
// their leaf edges, so a value must fit a cell together with its label.
func (b *Builder) StoreDict(entries map[string]*Cell, keyBits int) error {
	if len(entries) == 0 {
		return b.StoreBit(false)
	}

	items := make([]dictItem, 0, len(entries))
	for k, v := range entries {
		raw, err := hex.DecodeString(k)
		if err != nil || len(raw)*8 != keyBits {
			return xerrors.Errorf("dict key %q is not %d bits: %w", k, keyBits, ErrDictionaryDecode)
		}
		key := make([]byte, keyBits)
		for i := 0; i < keyBits; i++ {
			if raw[i/8]&(1<<(7-uint(i%8))) != 0 {
				key[i] = 1
			}
		}
		items = append(items, dictItem{key: key, value: v})
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].key, items[j].key
		for n := range a {
			if a[n] != b[n] {
				return a[n] < b[n]
			}
		}
		return false
	})

	root := BeginCell()
	if err := storeDictEdge(root, items, keyBits, 0); err != nil {
		return err
	}
	if err := b.StoreBit(true); err != nil {
		return err
	}
	return b.StoreRef(root.EndCell())
}

func storeDictEdge(eb *Builder, items []dictItem, keyBits, depth int) error {
	m := keyBits - depth

	// longest common prefix of the remaining key bits
	l := 0
	for l < m {
		bit := items[0].key[depth+l]
		same := true
		for _, it := range items[1:] {
			if it.key[depth+l] != bit {
				same = false
				break
			}
		}
		if !same {
			break
		}
		l++
	}

	if err := storeLabel(eb, items[0].key[depth:depth+l], m); err != nil {
		return err
	}

	if len(items) == 1 {
		// l == m here, the label exhausted the key
		v := items[0].value
		if err := eb.StoreBits(v.bits, v.bitsSz); err != nil {
			return err
		}
		for _, r := range v.refs {
			if err := eb.StoreRef(r); err != nil {
				return err
			}
		}
		return nil
	}

	var left, right []dictItem
	for _, it := range items {
		if it.key[depth+l] == 0 {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}
	lb := BeginCell()
	if err := storeDictEdge(lb, left, keyBits, depth+l+1); err != nil {
		return err
	}
	rb := BeginCell()
	if err := storeDictEdge(rb, right, keyBits, depth+l+1); err != nil {
		return err
	}
	if err := eb.StoreRef(lb.EndCell()); err != nil {
		return err
	}
	return eb.StoreRef(rb.EndCell())
}

// storeLabel picks the shortest of the three label encodings.
func storeLabel(eb *Builder, label []byte, m int) error {
	l := len(label)
	allSame := l > 0
	for _, b := range label {
		if b != label[0] {
			allSame = false
			break
		}
	}

	costShort := 2*l + 2
	costLong := 2 + lenBits(m) + l
	costSame := 3 + lenBits(m)
	if !allSame {
		costSame = costShort + costLong // never chosen
	}

	switch {
	case costShort <= costLong && costShort <= costSame: // hml_short$0
		if err := eb.StoreBit(false); err != nil {
			return err
		}
		for i := 0; i < l; i++ {
			if err := eb.StoreBit(true); err != nil {
				return err
			}
		}
		if err := eb.StoreBit(false); err != nil {
			return err
		}
		return storeLabelBits(eb, label)
	case costLong <= costSame: // hml_long$10
		if err := eb.StoreBit(true); err != nil {
			return err
		}
		if err := eb.StoreBit(false); err != nil {
			return err
		}
		if err := eb.StoreUint(uint64(l), lenBits(m)); err != nil {
			return err
		}
		return storeLabelBits(eb, label)
	default: // hml_same$11
		if err := eb.StoreBit(true); err != nil {
			return err
		}
		if err := eb.StoreBit(true); err != nil {
			return err
		}
		if err := eb.StoreBit(label[0] != 0); err != nil {
			return err
		}
		return eb.StoreUint(uint64(l), lenBits(m))
	}
}

func storeLabelBits(eb *Builder, label []byte) error {
	for _, b := range label {
		if err := eb.StoreBit(b != 0); err != nil {
			return err
		}
	}
	return nil
}
