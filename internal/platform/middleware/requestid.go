package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

const (
	// HeaderXRequestID carries the request correlation id.
	HeaderXRequestID = "X-Request-ID"

	maxRequestIDLength = 128
)

// acceptableRequestID reports whether a client supplied id is safe to log:
// bounded length and printable ASCII only.
func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range []byte(id) {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// RequestID stores a request id under "request_id" and echoes it in the
// response. A safe incoming X-Request-ID is reused; otherwise a UUIDv7 is
// generated.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := c.Request().Header.Get(HeaderXRequestID)
			if !acceptableRequestID(id) {
				id = newRequestID()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(HeaderXRequestID, id)
			return next(c)
		}
	}
}
