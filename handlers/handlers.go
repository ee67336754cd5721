package handlers

import (
	"io"

	"github.com/IfedayoAwe/corp-payment-gateway/config"
	service "github.com/IfedayoAwe/corp-payment-gateway/services"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	config     *config.Config
	settlement service.SettlementService
	status     service.StatusService
	accounts   service.AccountService
	responses  service.ResponseBuilder
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		config:     services.Config,
		settlement: services.Settlement(),
		status:     services.Status(),
		accounts:   services.Accounts(),
		responses:  services.Responses(),
	}
}

func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, utils.BadRequestErr("Request Body is missing or empty")
	}
	return body, nil
}
