package domain

import (
	"github.com/shopspring/decimal"

	"github.com/tonscope/goapi/base/ctx"
)

// Jetton is the resolved state of a fungible-token master contract.
type Jetton struct {
	Address      Address           `json:"address"`
	TotalSupply  string            `json:"totalSupply"`
	Mintable     bool              `json:"mintable"`
	AdminAddress *Address          `json:"adminAddress,omitempty"`
	Content      *ResolvedMetadata `json:"content"`
	// DisplayTotalSupply is the supply scaled by the metadata decimals,
	// present only when the record carries a decodable decimals value
	DisplayTotalSupply *decimal.Decimal `json:"displayTotalSupply,omitempty"`
	WalletCodeHash     string           `json:"walletCodeHash"`
}

type JettonUseCase interface {
	Resolve(ctx.Ctx, Address) (*Jetton, error)
}
