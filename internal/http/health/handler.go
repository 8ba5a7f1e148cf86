// Package health reports whether the server can reach its profile store.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/janisto/linkbio/internal/platform/kvstore"
	applog "github.com/janisto/linkbio/internal/platform/logging"
	"github.com/janisto/linkbio/internal/platform/respond"
)

const probeKey = "health_probe"

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status" cbor:"status" example:"healthy"`
}

// Handler returns the health endpoint. It reads a probe key from store with a
// short timeout and answers 503 when the read fails.
func Handler(store kvstore.Store) echo.HandlerFunc {
	return func(c *echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if _, _, err := store.Get(ctx, probeKey); err != nil {
			applog.LogError(ctx, "health probe failed", err)
			return respond.Negotiate(c, http.StatusServiceUnavailable, Response{Status: "unhealthy"})
		}
		return respond.Negotiate(c, http.StatusOK, Response{Status: "healthy"})
	}
}
