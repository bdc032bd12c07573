package usecase

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tonscope/goapi/base/cell"
	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/ptr"
	supplyformatter "github.com/tonscope/goapi/base/supply_formatter"
	"github.com/tonscope/goapi/domain"
	"github.com/tonscope/goapi/domain/mocks"
)

const testAccountHex = "83dfd552e63929b1fb8cc074b1aee99e1f8d1a224a41b07e936c229ab3dcb67e"

func numItem(v int64) domain.StackItem {
	return domain.StackItem{Type: domain.StackItemTypeNum, Num: big.NewInt(v)}
}

func cellItem(c *cell.Cell) domain.StackItem {
	return domain.StackItem{Type: domain.StackItemTypeCell, Cell: c}
}

func addrCell(t *testing.T, workchain uint64, accountHex string) *cell.Cell {
	raw, err := hex.DecodeString(accountHex)
	require.NoError(t, err)
	b := cell.BeginCell()
	require.NoError(t, b.StoreUint(0b10, 2))
	require.NoError(t, b.StoreBit(false))
	require.NoError(t, b.StoreUint(workchain, 8))
	require.NoError(t, b.StoreBytes(raw))
	return b.EndCell()
}

func addrNoneCell(t *testing.T) *cell.Cell {
	b := cell.BeginCell()
	require.NoError(t, b.StoreUint(0, 2))
	return b.EndCell()
}

func Test_jettonUseCase_Resolve(t *testing.T) {
	c := bCtx.Background()
	jettonAddress := domain.Address("0:" + testAccountHex)
	adminAddress := domain.Address("0:" + testAccountHex)

	contentCell := cell.BeginCell()
	require.NoError(t, contentCell.StoreUint(domain.ContentTagOffChain, 8))
	require.NoError(t, contentCell.StoreBytes([]byte("https://example.com/jetton.json")))
	content := contentCell.EndCell()

	walletCodeCell := cell.BeginCell()
	require.NoError(t, walletCodeCell.StoreBytes([]byte{0xfe, 0xed}))
	walletCode := walletCodeCell.EndCell()
	walletCodeHash := hex.EncodeToString(walletCode.Hash())

	resolvedWithDecimals := &domain.ResolvedMetadata{
		Persistence: domain.ContentPersistenceOffChainPrivate,
		Record: domain.MetadataRecord{
			Name:     ptr.String("Scaled"),
			Symbol:   ptr.String("SCALE"),
			Decimals: ptr.String("9"),
		},
	}
	resolvedNoDecimals := &domain.ResolvedMetadata{
		Persistence: domain.ContentPersistenceOffChainPrivate,
		Record:      domain.MetadataRecord{Name: ptr.String("Scaled")},
	}
	resolvedBadDecimals := &domain.ResolvedMetadata{
		Persistence: domain.ContentPersistenceOffChainPrivate,
		Record:      domain.MetadataRecord{Decimals: ptr.String("many")},
	}
	displaySupply := decimal.NewFromBigInt(big.NewInt(1500000000), -9)
	displaySupplySmall := decimal.NewFromBigInt(big.NewInt(21000000), -9)

	testcases := []struct {
		name     string
		stack    []domain.StackItem
		tonErr   error
		resolved *domain.ResolvedMetadata
		wantErr  error
		want     *domain.Jetton
	}{
		{
			name: "resolves a jetton with display supply",
			stack: []domain.StackItem{
				numItem(1500000000),
				numItem(-1),
				cellItem(addrCell(t, 0, testAccountHex)),
				cellItem(content),
				cellItem(walletCode),
			},
			resolved: resolvedWithDecimals,
			want: &domain.Jetton{
				Address:            jettonAddress,
				TotalSupply:        "1500000000",
				Mintable:           true,
				AdminAddress:       &adminAddress,
				Content:            resolvedWithDecimals,
				DisplayTotalSupply: &displaySupply,
				WalletCodeHash:     walletCodeHash,
			},
		},
		{
			name: "revoked admin is omitted",
			stack: []domain.StackItem{
				numItem(21000000),
				numItem(0),
				cellItem(addrNoneCell(t)),
				cellItem(content),
				cellItem(walletCode),
			},
			resolved: resolvedWithDecimals,
			want: &domain.Jetton{
				Address:            jettonAddress,
				TotalSupply:        "21000000",
				Mintable:           false,
				Content:            resolvedWithDecimals,
				DisplayTotalSupply: &displaySupplySmall,
				WalletCodeHash:     walletCodeHash,
			},
		},
		{
			name: "absent decimals skips display supply",
			stack: []domain.StackItem{
				numItem(1500000000),
				numItem(-1),
				cellItem(addrNoneCell(t)),
				cellItem(content),
				cellItem(walletCode),
			},
			resolved: resolvedNoDecimals,
			want: &domain.Jetton{
				Address:        jettonAddress,
				TotalSupply:    "1500000000",
				Mintable:       true,
				Content:        resolvedNoDecimals,
				WalletCodeHash: walletCodeHash,
			},
		},
		{
			name: "unparsable decimals skips display supply",
			stack: []domain.StackItem{
				numItem(1500000000),
				numItem(-1),
				cellItem(addrNoneCell(t)),
				cellItem(content),
				cellItem(walletCode),
			},
			resolved: resolvedBadDecimals,
			want: &domain.Jetton{
				Address:        jettonAddress,
				TotalSupply:    "1500000000",
				Mintable:       true,
				Content:        resolvedBadDecimals,
				WalletCodeHash: walletCodeHash,
			},
		},
		{
			name:    "remote call failure passes through",
			tonErr:  domain.ErrRemoteCall,
			wantErr: domain.ErrRemoteCall,
		},
		{
			name: "short stack",
			stack: []domain.StackItem{
				numItem(1500000000),
				numItem(-1),
			},
			wantErr: domain.ErrRemoteCall,
		},
		{
			name: "content decode failure passes through",
			stack: []domain.StackItem{
				numItem(1500000000),
				numItem(-1),
				cellItem(addrNoneCell(t)),
				cellItem(content),
				cellItem(walletCode),
			},
			wantErr: domain.ErrUnrecognizedContentFormat,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			ton := &mocks.TonClientRepo{}
			if tc.tonErr != nil {
				ton.On("RunGetMethod", mock.Anything, jettonAddress, "get_jetton_data", mock.Anything).
					Return(nil, tc.tonErr)
			} else {
				ton.On("RunGetMethod", mock.Anything, jettonAddress, "get_jetton_data", mock.Anything).
					Return(domain.NewTonCallResult(tc.stack), nil)
			}
			contentUC := &mocks.ContentUseCase{}
			if tc.resolved != nil {
				contentUC.On("DecodeJettonContent", mock.Anything, content).Return(tc.resolved, nil)
			} else {
				contentUC.On("DecodeJettonContent", mock.Anything, mock.Anything).
					Return(nil, domain.ErrUnrecognizedContentFormat)
			}
			u := NewJettonUseCase(&JettonUseCaseCfg{
				TonClient:       ton,
				ContentUC:       contentUC,
				SupplyFormatter: supplyformatter.NewSupplyFormatter(),
			})

			got, err := u.Resolve(c, jettonAddress)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
