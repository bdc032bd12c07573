package domain

import (
	"math/big"

	"github.com/tonscope/goapi/base/cell"
	"github.com/tonscope/goapi/base/ctx"
)

// content tag bytes defined by the standard
const (
	ContentTagOnChain  = 0x00
	ContentTagOffChain = 0x01
)

// OnChainContent is the dispatched form of an on-chain content cell: the
// field dictionary plus whether any value skipped the standard's one-level
// indirection.
type OnChainContent struct {
	Dictionary     map[string]*cell.Cell
	FaultyEncoding bool
}

// OffChainContent is the dispatched form of an off-chain content cell.
type OffChainContent struct {
	Uri    string
	IsIpfs bool
}

// ContentDescriptor is the tagged result of content dispatch, exactly one
// variant set.
type ContentDescriptor struct {
	OnChain  *OnChainContent
	OffChain *OffChainContent
}

type ContentUseCase interface {
	// DecodeJettonContent resolves a jetton's content cell into metadata.
	DecodeJettonContent(ctx.Ctx, *cell.Cell) (*ResolvedMetadata, error)
	// DecodeNftCollectionContent resolves a collection's content cell into
	// metadata.
	DecodeNftCollectionContent(ctx.Ctx, *cell.Cell) (*ResolvedMetadata, error)
	// DecodeNftItemContent composes the collection's per-item base path with
	// the item's own path fragment and fetches the metadata document.
	DecodeNftItemContent(c ctx.Ctx, individualContent *cell.Cell, collection Address, index *big.Int) (*Metadata, error)
}
