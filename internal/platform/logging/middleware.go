package logging

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
)

// RequestLogger returns middleware that stores a request-scoped logger and
// correlation id on the request context. It reads the request id set by the
// request id middleware, so it must run after it.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			reqID, _ := c.Get("request_id").(string)
			logger, correlation := requestLogger(
				Logger(),
				c.Request().Header.Get(traceparentHeader),
				resolveProjectID(),
				reqID,
			)

			ctx := contextWithTraceID(c.Request().Context(), correlation)
			ctx = contextWithLogger(ctx, logger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// AccessLogger returns middleware that logs one summary per request. Server
// errors log at error level and client errors at warning level. Paths in
// skip are not logged.
func AccessLogger(skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if _, ok := skipped[c.Request().URL.Path]; ok {
				return next(c)
			}
			start := time.Now()

			err := next(c)

			status, size := 0, int64(0)
			if resp, uerr := echo.UnwrapResponse(c.Response()); uerr == nil {
				status, size = resp.Status, resp.Size
			}
			if err != nil && (status == 0 || !committed(c)) {
				status = statusFromError(err)
			}

			lvl := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				lvl = slog.LevelError
			case status >= http.StatusBadRequest:
				lvl = slog.LevelWarn
			}

			ctx := c.Request().Context()
			LoggerFromContext(ctx).LogAttrs(ctx, lvl, "request completed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Int64("bytes", size),
				slog.Duration("duration", time.Since(start)),
			)

			return err
		}
	}
}

func committed(c *echo.Context) bool {
	resp, err := echo.UnwrapResponse(c.Response())
	return err == nil && resp.Committed
}

// statusFromError predicts the status the error handler will write.
func statusFromError(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var sc echo.HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
