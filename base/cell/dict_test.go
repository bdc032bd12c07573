package cell

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func sha256Key(name string) string {
	h := sha256.Sum256([]byte(name))
	return hex.EncodeToString(h[:])
}

func byteValueCell(t *testing.T, payload []byte, refs ...*Cell) *Cell {
	b := BeginCell()
	require.NoError(t, b.StoreBytes(payload))
	for _, r := range refs {
		require.NoError(t, b.StoreRef(r))
	}
	return b.EndCell()
}

func TestDictRoundTrip(t *testing.T) {
	req := require.New(t)

	inner := byteValueCell(t, []byte("chained"))
	entries := map[string]*Cell{
		sha256Key("name"):        byteValueCell(t, []byte("Toncoin")),
		sha256Key("description"): byteValueCell(t, []byte("the network token")),
		sha256Key("symbol"):      byteValueCell(t, []byte("TON")),
		sha256Key("decimals"):    byteValueCell(t, []byte("9")),
		sha256Key("image"):       byteValueCell(t, nil, inner),
	}

	b := BeginCell()
	req.NoError(b.StoreDict(entries, 256))
	c := b.EndCell()

	loaded, err := LoadDict(c.BeginParse(), 256)
	req.NoError(err)
	req.Len(loaded, len(entries))
	for k, v := range entries {
		got, ok := loaded[k]
		req.True(ok, k)
		req.Equal(v.Hash(), got.Hash(), k)
	}
}

func TestDictEmpty(t *testing.T) {
	req := require.New(t)

	b := BeginCell()
	req.NoError(b.StoreDict(nil, 256))
	c := b.EndCell()
	req.Equal(1, c.BitsCount())
	req.Equal(0, c.RefsCount())

	loaded, err := LoadDict(c.BeginParse(), 256)
	req.NoError(err)
	req.Empty(loaded)
}

func TestDictSameBitLabels(t *testing.T) {
	req := require.New(t)

	// keys differing only in the first bit leave long single-bit runs below
	// the fork, which serialize as hml_same labels
	zeroKey := hex.EncodeToString(make([]byte, 32))
	oneBit := make([]byte, 32)
	oneBit[0] = 0x80
	entries := map[string]*Cell{
		zeroKey:                    byteValueCell(t, []byte("left")),
		hex.EncodeToString(oneBit): byteValueCell(t, []byte("right")),
	}

	b := BeginCell()
	req.NoError(b.StoreDict(entries, 256))

	loaded, err := LoadDict(b.EndCell().BeginParse(), 256)
	req.NoError(err)
	req.Len(loaded, 2)
	for k, v := range entries {
		req.Equal(v.Hash(), loaded[k].Hash())
	}
}

func TestDictMalformed(t *testing.T) {
	req := require.New(t)

	// a fork edge with no child references
	edge := BeginCell()
	req.NoError(edge.StoreBit(false)) // hml_short
	req.NoError(edge.StoreBit(false)) // zero length label
	root := BeginCell()
	req.NoError(root.StoreBit(true))
	req.NoError(root.StoreRef(edge.EndCell()))
	_, err := LoadDict(root.EndCell().BeginParse(), 256)
	req.ErrorIs(err, ErrDictionaryDecode)

	// a long label claiming more bits than the key has left
	edge = BeginCell()
	req.NoError(edge.StoreBit(true))
	req.NoError(edge.StoreBit(false))
	req.NoError(edge.StoreUint(300, 9))
	root = BeginCell()
	req.NoError(root.StoreBit(true))
	req.NoError(root.StoreRef(edge.EndCell()))
	_, err = LoadDict(root.EndCell().BeginParse(), 256)
	req.ErrorIs(err, ErrDictionaryDecode)

	// nothing to read at all
	_, err = LoadDict(BeginCell().EndCell().BeginParse(), 256)
	req.ErrorIs(err, ErrDictionaryDecode)
}

func TestStoreDictRejectsBadKeys(t *testing.T) {
	req := require.New(t)

	b := BeginCell()
	err := b.StoreDict(map[string]*Cell{"zz": byteValueCell(t, nil)}, 256)
	req.ErrorIs(err, ErrDictionaryDecode)

	b = BeginCell()
	err = b.StoreDict(map[string]*Cell{"ff00": byteValueCell(t, nil)}, 256)
	req.ErrorIs(err, ErrDictionaryDecode)
}
