package supplyformatter

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/log"
	"github.com/tonscope/goapi/domain"
)

// metadata decimals is a byte-ranged quantity rendered as text
const maxDecimals = 255

type impl struct{}

func NewSupplyFormatter() SupplyFormatter {
	return &impl{}
}

func (f *impl) FormatSupply(ctx bCtx.Ctx, value *big.Int, decimals int32) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -decimals)
}

func (f *impl) FormatSupplyFromText(ctx bCtx.Ctx, value *big.Int, decimalsText string) (decimal.Decimal, error) {
	decimals, err := strconv.ParseInt(decimalsText, 10, 32)
	if err != nil || decimals < 0 || decimals > maxDecimals {
		ctx.WithFields(log.Fields{
			"decimals": decimalsText,
			"err":      err,
		}).Warn("invalid decimals in token metadata")
		return decimal.Zero, domain.ErrInvalidDecimals
	}
	return f.FormatSupply(ctx, value, int32(decimals)), nil
}
