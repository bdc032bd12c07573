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
	jetton domain.JettonUseCase
}

func New(e *echo.Echo, jetton domain.JettonUseCase) {
	h := &handler{
		jetton: jetton,
	}

	g := e.Group("/jetton")
	g.GET("/:address/metadata", h.getMetadata, middleware.IsValidAddress("address"))
}

func (h *handler) getMetadata(c echo.Context) error {
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

	jetton, err := h.jetton.Resolve(ctx, address)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrRemoteCall) {
			status = http.StatusBadGateway
		}
		return delivery.MakeJsonResp(c, status, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, jetton)
}
