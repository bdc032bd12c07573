package domain

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/tonscope/goapi/base/cell"
	"github.com/tonscope/goapi/base/ctx"
)

// StackItemType tags one slot of a get-method result stack.
type StackItemType string

const (
	StackItemTypeNum  StackItemType = "num"
	StackItemTypeCell StackItemType = "cell"
	// StackItemTypeOpaque covers tuples and other shapes the decoder never
	// reads, they can only be skipped
	StackItemTypeOpaque StackItemType = "opaque"
)

// StackItem is one typed slot of a get-method result stack.
type StackItem struct {
	Type StackItemType
	Num  *big.Int
	Cell *cell.Cell
}

// CallArg is one typed argument of a get-method call, either a number or a
// cell.
type CallArg struct {
	Num  *big.Int
	Cell *cell.Cell
}

func NumArg(v *big.Int) CallArg {
	return CallArg{Num: v}
}

func CellArg(c *cell.Cell) CallArg {
	return CallArg{Cell: c}
}

// TonCallResult is the ordered stack a get-method returned, consumed through
// a forward cursor like the slices it carries.
type TonCallResult struct {
	items []StackItem
	pos   int
}

func NewTonCallResult(items []StackItem) *TonCallResult {
	return &TonCallResult{items: items}
}

func (r *TonCallResult) next(want StackItemType) (*StackItem, error) {
	if r.pos >= len(r.items) {
		return nil, xerrors.Errorf("read stack slot %d of %d: %w", r.pos, len(r.items), ErrRemoteCall)
	}
	it := &r.items[r.pos]
	if it.Type != want {
		return nil, xerrors.Errorf("stack slot %d holds %s, want %s: %w", r.pos, it.Type, want, ErrRemoteCall)
	}
	r.pos++
	return it, nil
}

// Skip discards n slots regardless of their types.
func (r *TonCallResult) Skip(n int) error {
	if r.pos+n > len(r.items) {
		return xerrors.Errorf("skip %d with %d slots left: %w", n, len(r.items)-r.pos, ErrRemoteCall)
	}
	r.pos += n
	return nil
}

// ReadBigNumber reads the next slot as an integer.
func (r *TonCallResult) ReadBigNumber() (*big.Int, error) {
	it, err := r.next(StackItemTypeNum)
	if err != nil {
		return nil, err
	}
	return it.Num, nil
}

// ReadCell reads the next slot as a cell.
func (r *TonCallResult) ReadCell() (*cell.Cell, error) {
	it, err := r.next(StackItemTypeCell)
	if err != nil {
		return nil, err
	}
	return it.Cell, nil
}

// ReadAddress reads the next slot as a cell holding a message address.
// addr_none decodes as the empty address.
func (r *TonCallResult) ReadAddress() (Address, error) {
	c, err := r.ReadCell()
	if err != nil {
		return EmptyAddress, err
	}
	return AddressFromCell(c)
}

// TonClientRepo issues remote get-method calls against a ledger node.
type TonClientRepo interface {
	RunGetMethod(c ctx.Ctx, address Address, method string, args []CallArg) (*TonCallResult, error)
}
