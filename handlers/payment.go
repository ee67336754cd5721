package handlers

import (
	"github.com/IfedayoAwe/corp-payment-gateway/handlers/requests"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/labstack/echo/v4"
)

type PaymentHandler interface {
	InitiatePayment(c echo.Context) error
	GetPaymentStatus(c echo.Context) error
}

type paymentHandler struct {
	*Handlers
}

func (h *Handlers) Payment() PaymentHandler {
	return &paymentHandler{h}
}

func (ph *paymentHandler) InitiatePayment(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req requests.PaymentRequest
	if err := requests.DecodeEnvelope(body, ph.config.PaymentRequestTag(), &req); err != nil {
		return utils.HandleError(c, err)
	}

	authorization := c.Request().Header.Get(echo.HeaderAuthorization)
	outcome, err := ph.settlement.Settle(c.Request().Context(), authorization, req.ToModel())
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Envelope(c, ph.config.PaymentResponseTag(), ph.responses.Payment(outcome))
}

func (ph *paymentHandler) GetPaymentStatus(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req requests.StatusRequest
	if err := requests.DecodeEnvelope(body, ph.config.StatusRequestTag(), &req); err != nil {
		return utils.HandleError(c, err)
	}

	authorization := c.Request().Header.Get(echo.HeaderAuthorization)
	outcome, err := ph.status.Inquire(c.Request().Context(), authorization, req.ToModel())
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Envelope(c, ph.config.StatusResponseTag(), ph.responses.Status(outcome))
}
