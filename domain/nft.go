package domain

import (
	"github.com/tonscope/goapi/base/ctx"
)

// NftCollection is the resolved state of a collection contract.
type NftCollection struct {
	Address       Address           `json:"address"`
	NextItemIndex string            `json:"nextItemIndex"`
	Owner         *Address          `json:"owner,omitempty"`
	Content       *ResolvedMetadata `json:"content"`
}

// NftItem is the resolved state of an item contract. Collection members
// carry the fetched metadata document; standalone items resolve their
// individual content through the full pipeline instead.
type NftItem struct {
	Address     Address           `json:"address"`
	Initialized bool              `json:"initialized"`
	Index       string            `json:"index"`
	Collection  *Address          `json:"collection,omitempty"`
	Metadata    *Metadata         `json:"metadata,omitempty"`
	Content     *ResolvedMetadata `json:"content,omitempty"`
}

type NftUseCase interface {
	ResolveCollection(ctx.Ctx, Address) (*NftCollection, error)
	ResolveItem(ctx.Ctx, Address) (*NftItem, error)
}
