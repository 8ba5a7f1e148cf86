// Package catalog serves the static template and theme registries.
package catalog

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/janisto/linkbio/internal/platform/respond"
	profilesvc "github.com/janisto/linkbio/internal/service/profile"
	"github.com/janisto/linkbio/internal/service/theme"
)

// Register wires the public catalog routes into g.
func Register(g *echo.Group) {
	g.GET("/templates", handleListTemplates)
	g.GET("/themes", handleListThemes)
}

// handleListTemplates godoc
//
//	@Summary		List templates
//	@Description	Returns one template per profile type
//	@Tags			catalog
//	@Produce		json,application/cbor
//	@Success		200	{object}	TemplateList
//	@Router			/templates [get]
func handleListTemplates(c *echo.Context) error {
	all := profilesvc.Templates()
	out := TemplateList{Templates: make([]Template, 0, len(all))}
	for _, t := range all {
		out.Templates = append(out.Templates, Template{
			Type:            string(t.Type),
			Label:           t.Label,
			DefaultName:     t.DefaultName(),
			DefaultSettings: t.DefaultSettings,
			Placeholders:    t.Placeholders,
			Hints:           t.Hints,
		})
	}
	return respond.Negotiate(c, http.StatusOK, out)
}

// handleListThemes godoc
//
//	@Summary		List themes
//	@Tags			catalog
//	@Produce		json,application/cbor
//	@Success		200	{object}	ThemeList
//	@Router			/themes [get]
func handleListThemes(c *echo.Context) error {
	all := theme.Themes()
	out := ThemeList{Themes: make([]Theme, 0, len(all))}
	for _, t := range all {
		out.Themes = append(out.Themes, Theme(t))
	}
	return respond.Negotiate(c, http.StatusOK, out)
}
