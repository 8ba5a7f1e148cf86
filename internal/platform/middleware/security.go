package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"
)

const permissionsPolicy = "accelerometer=(), camera=(), geolocation=(), gyroscope=(), " +
	"magnetometer=(), microphone=(), payment=(), usb=()"

// SecurityConfig tunes Security per path prefix.
type SecurityConfig struct {
	// Skip prefixes get no headers at all.
	Skip []string
	// Public prefixes serve pages any site may embed or fetch, so they are
	// cacheable for PublicMaxAge seconds and readable cross-origin.
	Public       []string
	PublicMaxAge int
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Security sets OWASP REST security headers on every response outside
// cfg.Skip.
func Security(cfg SecurityConfig) echo.MiddlewareFunc {
	publicCache := "public, max-age=" + strconv.Itoa(cfg.PublicMaxAge)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			path := c.Request().URL.Path
			if hasAnyPrefix(path, cfg.Skip) {
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", permissionsPolicy)

			if hasAnyPrefix(path, cfg.Public) && c.Request().Method == http.MethodGet {
				h.Set("Cache-Control", publicCache)
				h.Set("Cross-Origin-Resource-Policy", "cross-origin")
				return next(c)
			}

			h.Set("Cache-Control", "no-store")
			h.Set("Content-Security-Policy", "frame-ancestors 'none'")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")
			h.Set("X-Frame-Options", "DENY")
			return next(c)
		}
	}
}
