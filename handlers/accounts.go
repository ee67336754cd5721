package handlers

import (
	"github.com/IfedayoAwe/corp-payment-gateway/handlers/requests"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/labstack/echo/v4"
)

type AccountHandler interface {
	ListAccounts(c echo.Context) error
}

type accountHandler struct {
	*Handlers
}

func (h *Handlers) Accounts() AccountHandler {
	return &accountHandler{h}
}

func (ah *accountHandler) ListAccounts(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req requests.AccountsRequest
	if err := requests.DecodeEnvelope(body, ah.config.AccountsRequestTag, &req); err != nil {
		return utils.HandleError(c, err)
	}

	authorization := c.Request().Header.Get(echo.HeaderAuthorization)
	outcome, err := ah.accounts.ListAccounts(c.Request().Context(), authorization, req.ToModel())
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Envelope(c, ah.config.AccountsResponseTag, ah.responses.Accounts(outcome))
}
