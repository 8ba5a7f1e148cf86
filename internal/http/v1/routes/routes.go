// Package routes assembles the /v1 API.
package routes

import (
	"github.com/labstack/echo/v5"

	"github.com/janisto/linkbio/internal/http/v1/catalog"
	"github.com/janisto/linkbio/internal/http/v1/pages"
	"github.com/janisto/linkbio/internal/http/v1/profile"
	"github.com/janisto/linkbio/internal/platform/auth"
	profilesvc "github.com/janisto/linkbio/internal/service/profile"
)

// PagesPrefix is the path prefix of public pages under the server root.
const PagesPrefix = "/v1/pages/"

// Register wires all v1 routes into v1. Catalog and public pages are open;
// profile management requires a verified user.
func Register(v1 *echo.Group, verifier auth.Verifier, provider *profilesvc.Provider) {
	catalog.Register(v1)
	pages.Register(v1, provider)

	protected := v1.Group("", auth.Middleware(verifier))
	profile.Register(protected, provider)
}
