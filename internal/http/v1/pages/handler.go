// Package pages serves a user's active profile to anonymous visitors.
package pages

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v5"

	applog "github.com/janisto/linkbio/internal/platform/logging"
	"github.com/janisto/linkbio/internal/platform/respond"
	profilesvc "github.com/janisto/linkbio/internal/service/profile"
)

// Page is the public view of a profile.
type Page struct {
	UID  string         `json:"uid"  cbor:"uid"  example:"u_8f2c"`
	Type string         `json:"type" cbor:"type" example:"creative"`
	Data map[string]any `json:"data" cbor:"data"`
}

// Register wires the public page route into g.
func Register(g *echo.Group, provider *profilesvc.Provider) {
	g.GET("/pages/:uid", handleGetPage(provider))
}

// handleGetPage godoc
//
//	@Summary		Get public page
//	@Description	Returns the active profile of a user when it is public
//	@Tags			pages
//	@Produce		json,application/cbor
//	@Param			uid	path		string	true	"User id"
//	@Success		200	{object}	Page
//	@Failure		404	{object}	respond.ProblemDetails
//	@Router			/pages/{uid} [get]
func handleGetPage(provider *profilesvc.Provider) echo.HandlerFunc {
	return func(c *echo.Context) error {
		uid := c.Param("uid")
		ctx := c.Request().Context()

		p, err := provider.Reader(uid).ActiveProfile(ctx)
		if err != nil {
			applog.LogError(ctx, "load public page failed", err, slog.String("uid", uid))
			return respond.Error500("internal error")
		}
		if p == nil || !p.Data.Public() {
			return respond.Error404("page not found")
		}

		data, err := p.Data.Fields()
		if err != nil {
			applog.LogError(ctx, "encode public page failed", err, slog.String("uid", uid))
			return respond.Error500("internal error")
		}
		return respond.Negotiate(c, http.StatusOK, Page{UID: uid, Type: string(p.Type), Data: data})
	}
}
