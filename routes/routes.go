package routes

import (
	"net/http"

	"github.com/IfedayoAwe/corp-payment-gateway/config"
	"github.com/IfedayoAwe/corp-payment-gateway/handlers"
	"github.com/IfedayoAwe/corp-payment-gateway/middleware"
	echo "github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
)

func Register(e *echo.Echo, cfg *config.Config, handlers *handlers.Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Ok")
	})

	e.GET("/docs", func(c echo.Context) error {
		return c.HTML(http.StatusOK, `<!DOCTYPE html>
<html>
<head>
    <title>Corporate Payment Gateway API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body { margin: 0; padding: 0; }
    </style>
</head>
<body>
    <redoc spec-url='/docs/openapi.json'></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`)
	})

	e.GET("/docs/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, getOpenAPISpec(cfg))
	})

	api := e.Group("/api")
	api.Use(emw.Logger(), emw.Recover())
	api.Use(middleware.TraceIDMiddleware())
	if cfg.RequestTimeout > 0 {
		api.Use(emw.ContextTimeoutWithConfig(emw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))
	}
	api.Use(middleware.RequireJSON())

	RegisterPaymentRoutes(api, handlers)
}

func RegisterPaymentRoutes(api *echo.Group, handlers *handlers.Handlers) {
	paymentHandler := handlers.Payment()
	accountHandler := handlers.Accounts()

	api.POST("/payments", paymentHandler.InitiatePayment)
	api.POST("/payments/status", paymentHandler.GetPaymentStatus)
	api.POST("/accounts", accountHandler.ListAccounts)
}

func envelopeOperation(summary, requestTag, responseTag string) map[string]interface{} {
	return map[string]interface{}{
		"summary":  summary,
		"security": []map[string]interface{}{{"basicAuth": []string{}}},
		"requestBody": map[string]interface{}{
			"required": true,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": map[string]interface{}{
						"type":     "object",
						"required": []string{requestTag},
					},
				},
			},
		},
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "Domain outcome wrapped in " + responseTag + "; Header.Status is SUCCESS, FAILED or HELD",
			},
			"400": map[string]interface{}{"description": "Missing body, invalid JSON, missing envelope tag or bad Authorization encoding"},
			"401": map[string]interface{}{"description": "Caller could not be authenticated"},
			"415": map[string]interface{}{"description": "Content-Type is not application/json"},
			"500": map[string]interface{}{"description": "An unexpected error occurred"},
		},
	}
}

func getOpenAPISpec(cfg *config.Config) map[string]interface{} {
	status := envelopeOperation("Payment status inquiry", cfg.StatusRequestTag(), cfg.StatusResponseTag())
	status["responses"].(map[string]interface{})["404"] = map[string]interface{}{
		"description": "No transaction found for the provided OrgTranID",
	}
	accounts := envelopeOperation("List accounts of the caller's corp", cfg.AccountsRequestTag, cfg.AccountsResponseTag)
	accounts["responses"].(map[string]interface{})["404"] = map[string]interface{}{
		"description": "No accounts found for the provided Corp_ID",
	}

	return map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Corporate Payment Gateway API",
			"version":     "1.0.0",
			"description": "Validates and mock-settles corporate payments over FT, RTGS, IMPS and NEFT.",
		},
		"servers": []map[string]interface{}{
			{
				"url":         "http://localhost:" + cfg.Port,
				"description": "Local development server",
			},
		},
		"paths": map[string]interface{}{
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Health check",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Service is healthy"},
					},
				},
			},
			"/api/payments": map[string]interface{}{
				"post": envelopeOperation("Single payment initiation", cfg.PaymentRequestTag(), cfg.PaymentResponseTag()),
			},
			"/api/payments/status": map[string]interface{}{"post": status},
			"/api/accounts":        map[string]interface{}{"post": accounts},
		},
		"components": map[string]interface{}{
			"securitySchemes": map[string]interface{}{
				"basicAuth": map[string]interface{}{
					"type":        "http",
					"scheme":      "basic",
					"description": "LDAP ID and password",
				},
			},
		},
	}
}
