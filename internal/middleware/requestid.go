package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware adds a unique request ID to each request. It must
// run before the logger middleware, which reads the id from the response.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(HeaderRequestID)
			if requestID == "" || len(requestID) > 128 {
				requestID = uuid.New().String()
				c.Request().Header.Set(HeaderRequestID, requestID)
			}

			// Add request ID to response header
			c.Response().Header().Set(HeaderRequestID, requestID)

			return next(c)
		}
	}
}
