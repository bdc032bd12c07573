package supplyformatter

import (
	"math/big"

	"github.com/shopspring/decimal"

	bCtx "github.com/tonscope/goapi/base/ctx"
)

type SupplyFormatter interface {
	// FormatSupply scales a raw minimal-unit amount by the token's decimals.
	FormatSupply(ctx bCtx.Ctx, value *big.Int, decimals int32) decimal.Decimal
	// FormatSupplyFromText scales using the textual decimals field carried in
	// token metadata.
	FormatSupplyFromText(ctx bCtx.Ctx, value *big.Int, decimalsText string) (decimal.Decimal, error)
}
