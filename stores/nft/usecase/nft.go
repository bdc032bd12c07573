package usecase

import (
	"math/big"

	"github.com/tonscope/goapi/base/cell"
	bCtx "github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/log"
	"github.com/tonscope/goapi/domain"
)

type NftUseCaseCfg struct {
	TonClient domain.TonClientRepo
	ContentUC domain.ContentUseCase
}

type nftUseCase struct {
	tonClient domain.TonClientRepo
	contentUC domain.ContentUseCase
}

func NewNftUseCase(cfg *NftUseCaseCfg) domain.NftUseCase {
	return &nftUseCase{
		tonClient: cfg.TonClient,
		contentUC: cfg.ContentUC,
	}
}

func (u *nftUseCase) ResolveCollection(c bCtx.Ctx, address domain.Address) (*domain.NftCollection, error) {
	res, err := u.tonClient.RunGetMethod(c, address, "get_collection_data", nil)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("get_collection_data failed")
		return nil, err
	}

	data, err := parseCollectionData(res)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("malformed get_collection_data stack")
		return nil, err
	}

	content, err := u.contentUC.DecodeNftCollectionContent(c, data.content)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("failed to decode collection content")
		return nil, err
	}

	coll := &domain.NftCollection{
		Address:       address,
		NextItemIndex: data.nextItemIndex.String(),
		Content:       content,
	}
	if !data.owner.IsEmpty() {
		coll.Owner = &data.owner
	}
	return coll, nil
}

func (u *nftUseCase) ResolveItem(c bCtx.Ctx, address domain.Address) (*domain.NftItem, error) {
	res, err := u.tonClient.RunGetMethod(c, address, "get_nft_data", nil)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("get_nft_data failed")
		return nil, err
	}

	data, err := parseNftData(res)
	if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("malformed get_nft_data stack")
		return nil, err
	}

	item := &domain.NftItem{
		Address:     address,
		Initialized: data.init,
		Index:       data.index.String(),
	}
	if !data.collection.IsEmpty() {
		item.Collection = &data.collection
	}
	if !data.init {
		return item, nil
	}

	if data.collection.IsEmpty() {
		// standalone items carry a full content cell, same shape as a
		// collection's
		content, err := u.contentUC.DecodeNftCollectionContent(c, data.individualContent)
		if err != nil {
			c.WithFields(log.Fields{
				"address": address,
				"err":     err,
			}).Error("failed to decode item content")
			return nil, err
		}
		item.Content = content
		return item, nil
	}

	metadata, err := u.contentUC.DecodeNftItemContent(c, data.individualContent, data.collection, data.index)
	if err != nil {
		c.WithFields(log.Fields{
			"address":    address,
			"collection": data.collection,
			"err":        err,
		}).Error("failed to resolve item metadata")
		return nil, err
	}
	item.Metadata = metadata
	return item, nil
}

type collectionData struct {
	nextItemIndex *big.Int
	content       *cell.Cell
	owner         domain.Address
}

// get_collection_data returns (next_item_index, collection_content,
// owner_address)
func parseCollectionData(res *domain.TonCallResult) (*collectionData, error) {
	nextItemIndex, err := res.ReadBigNumber()
	if err != nil {
		return nil, err
	}
	content, err := res.ReadCell()
	if err != nil {
		return nil, err
	}
	owner, err := res.ReadAddress()
	if err != nil {
		return nil, err
	}
	return &collectionData{
		nextItemIndex: nextItemIndex,
		content:       content,
		owner:         owner,
	}, nil
}

type nftData struct {
	init              bool
	index             *big.Int
	collection        domain.Address
	individualContent *cell.Cell
}

// get_nft_data returns (init, index, collection_address, owner_address,
// individual_content); the owner slot is skipped
func parseNftData(res *domain.TonCallResult) (*nftData, error) {
	initFlag, err := res.ReadBigNumber()
	if err != nil {
		return nil, err
	}
	index, err := res.ReadBigNumber()
	if err != nil {
		return nil, err
	}
	collection, err := res.ReadAddress()
	if err != nil {
		return nil, err
	}
	data := &nftData{
		init:       initFlag.Sign() != 0,
		index:      index,
		collection: collection,
	}
	// uninitialized items carry nothing decodable past the collection slot
	if !data.init {
		return data, nil
	}
	if err := res.Skip(1); err != nil {
		return nil, err
	}
	if data.individualContent, err = res.ReadCell(); err != nil {
		return nil, err
	}
	return data, nil
}
