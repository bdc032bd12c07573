package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tonscope/goapi/base/ctx"
	"github.com/tonscope/goapi/base/delivery"
	"github.com/tonscope/goapi/domain"
	"github.com/tonscope/goapi/middleware"
)

type handler struct {
	nft domain.NftUseCase
}

func New(e *echo.Echo, nft domain.NftUseCase) {
	h := &handler{
		nft: nft,
	}

	g := e.Group("/collection")
	g.GET("/:address/metadata", h.getCollectionMetadata, middleware.IsValidAddress("address"))

	g = e.Group("/item")
	g.GET("/:address/metadata", h.getItemMetadata, middleware.IsValidAddress("address"))
}

func (h *handler) getCollectionMetadata(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Address string `param:"address" validate:"required,tonaddress"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	address, err := domain.ParseAddress(p.Address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	collection, err := h.nft.ResolveCollection(ctx, address)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrRemoteCall) {
			status = http.StatusBadGateway
		}
		return delivery.MakeJsonResp(c, status, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, collection)
}

func (h *handler) getItemMetadata(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Address string `param:"address" validate:"required,tonaddress"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	address, err := domain.ParseAddress(p.Address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	item, err := h.nft.ResolveItem(ctx, address)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrRemoteCall) {
			status = http.StatusBadGateway
		}
		return delivery.MakeJsonResp(c, status, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, item)
}
