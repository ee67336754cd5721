package middleware

import (
	"mime"
	"net/http"

	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/labstack/echo/v4"
)

// RequireJSON rejects requests with a body unless Content-Type is
// application/json. Parameters such as charset are allowed.
func RequireJSON() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				return next(c)
			}

			mediaType, _, err := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
			if err != nil || mediaType != echo.MIMEApplicationJSON {
				return utils.UnsupportedMediaTypeErr("Content-Type must be application/json")
			}

			return next(c)
		}
	}
}
