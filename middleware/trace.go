package middleware

import (
	"regexp"

	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/labstack/echo/v4"
)

var traceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// TraceIDMiddleware accepts a caller supplied X-Trace-ID when it is a plain
// token and mints a new one otherwise. The ID is put on the request context
// and echoed in the response headers.
func TraceIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(utils.TraceIDHeader)
			if !traceIDPattern.MatchString(traceID) {
				if traceID != "" {
					utils.Logger.Debug().
						Int("length", len(traceID)).
						Str("path", req.URL.Path).
						Msg("replacing unusable caller trace id")
				}
				traceID = utils.GenerateTraceID()
			}

			c.SetRequest(req.WithContext(utils.WithTraceID(req.Context(), traceID)))
			c.Response().Header().Set(utils.TraceIDHeader, traceID)

			return next(c)
		}
	}
}
