package usecase

import (
	"encoding/hex"
	"math/big"

	"github.com/tonscope/goapi/base/cell"
	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/log"
	supplyformatter "github.com/tonscope/goapi/base/supply_formatter"
	"github.com/tonscope/goapi/domain"
)

type JettonUseCaseCfg struct {
	TonClient       domain.TonClientRepo
	ContentUC       domain.ContentUseCase
	SupplyFormatter supplyformatter.SupplyFormatter
}

type jettonUseCase struct {
	tonClient       domain.TonClientRepo
	contentUC       domain.ContentUseCase
	supplyFormatter supplyformatter.SupplyFormatter
}

func NewJettonUseCase(cfg *JettonUseCaseCfg) domain.JettonUseCase {
	return &jettonUseCase{
		tonClient:       cfg.TonClient,
		contentUC:       cfg.ContentUC,
		supplyFormatter: cfg.SupplyFormatter,
	}
}

func (u *jettonUseCase) Resolve(c bCtx.Ctx, address domain.Address) (*domain.Jetton, error) {
	res, err := u.tonClient.RunGetMethod(c, address, "get_jetton_data", nil)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("get_jetton_data failed")
		return nil, err
	}

	data, err := parseJettonData(res)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("malformed get_jetton_data stack")
		return nil, err
	}

	content, err := u.contentUC.DecodeJettonContent(c, data.content)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("failed to decode jetton content")
		return nil, err
	}

	jetton := &domain.Jetton{
		Address:        address,
		TotalSupply:    data.totalSupply.String(),
		Mintable:       data.mintable,
		Content:        content,
		WalletCodeHash: hex.EncodeToString(data.walletCode.Hash()),
	}
	if !data.admin.IsEmpty() {
		jetton.AdminAddress = &data.admin
	}
	if content.Record.Decimals != nil {
		if display, err := u.supplyFormatter.FormatSupplyFromText(c, data.totalSupply, *content.Record.Decimals); err == nil {
			jetton.DisplayTotalSupply = &display
		}
	}
	return jetton, nil
}

type jettonData struct {
	totalSupply *big.Int
	mintable    bool
	admin       domain.Address
	content     *cell.Cell
	walletCode  *cell.Cell
}

// get_jetton_data returns (total_supply, mintable, admin_address, content,
// wallet_code)
func parseJettonData(res *domain.TonCallResult) (*jettonData, error) {
	totalSupply, err := res.ReadBigNumber()
	if err != nil {
		return nil, err
	}
	mintable, err := res.ReadBigNumber()
	if err != nil {
		return nil, err
	}
	admin, err := res.ReadAddress()
	if err != nil {
		return nil, err
	}
	content, err := res.ReadCell()
	if err != nil {
		return nil, err
	}
	walletCode, err := res.ReadCell()
	if err != nil {
		return nil, err
	}
	return &jettonData{
		totalSupply: totalSupply,
		mintable:    mintable.Sign() != 0,
		admin:       admin,
		content:     content,
		walletCode:  walletCode,
	}, nil
}
