// Package profile serves the authenticated user's profiles: listing,
// creation, editing, selection and deletion.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/janisto/linkbio/internal/platform/auth"
	"github.com/janisto/linkbio/internal/platform/kvstore"
	applog "github.com/janisto/linkbio/internal/platform/logging"
	"github.com/janisto/linkbio/internal/platform/respond"
	profilesvc "github.com/janisto/linkbio/internal/service/profile"
	"github.com/janisto/linkbio/internal/service/theme"
)

// Register wires profile routes into g, which must carry auth middleware.
func Register(g *echo.Group, provider *profilesvc.Provider) {
	h := &handler{provider: provider}

	g.GET("/profiles", h.list)
	g.POST("/profiles", h.create)
	g.POST("/profiles/init", h.initialize)
	g.GET("/profiles/active", h.getActive)
	g.PUT("/profiles/active", h.setActive)
	g.GET("/profiles/:id", h.get)
	g.PATCH("/profiles/:id", h.update)
	g.PUT("/profiles/:id/name", h.rename)
	g.DELETE("/profiles/:id", h.delete)
	g.POST("/profiles/:id/theme", h.applyTheme)
}

type handler struct {
	provider *profilesvc.Provider
}

// manager returns the caller's Manager.
func (h *handler) manager(c *echo.Context) (*profilesvc.Manager, string, error) {
	uid, err := auth.UID(c)
	if err != nil {
		return nil, "", err
	}
	return h.provider.For(uid), uid, nil
}

func bindValid(c *echo.Context, input any) error {
	if err := c.Bind(input); err != nil {
		return err
	}
	return c.Validate(input)
}

func audit(ctx context.Context, action, uid, profileID string, err error, details map[string]any) {
	result := applog.AuditSuccess
	if err != nil {
		result = applog.AuditFailure
	}
	applog.LogAudit(ctx, applog.AuditEvent{
		Action:    action,
		UserID:    uid,
		ProfileID: profileID,
		Result:    result,
		Details:   details,
	})
}

func writeProfile(c *echo.Context, status int, p *profilesvc.Profile) error {
	out, err := toHTTPProfile(p)
	if err != nil {
		return mapServiceError(c.Request().Context(), err)
	}
	return respond.Negotiate(c, status, out)
}

func (h *handler) writeList(c *echo.Context, m *profilesvc.Manager, profiles []profilesvc.Profile) error {
	ctx := c.Request().Context()
	activeID, ok, err := m.ActiveProfileID(ctx)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	out, err := toHTTPProfileList(profiles, activeID, ok)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return respond.Negotiate(c, http.StatusOK, out)
}

// list godoc
//
//	@Summary		List profiles
//	@Description	Returns every profile of the caller and the active profile id
//	@Tags			profiles
//	@Produce		json,application/cbor
//	@Success		200	{object}	ProfileList
//	@Failure		401	{object}	respond.ProblemDetails
//	@Failure		500	{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles [get]
func (h *handler) list(c *echo.Context) error {
	m, _, err := h.manager(c)
	if err != nil {
		return err
	}
	profiles, err := m.AllProfiles(c.Request().Context())
	if err != nil {
		return mapServiceError(c.Request().Context(), err)
	}
	return h.writeList(c, m, profiles)
}

// create godoc
//
//	@Summary		Create profile
//	@Description	Creates a profile seeded from the template of its type. The first profile becomes active.
//	@Tags			profiles
//	@Accept			json
//	@Produce		json,application/cbor
//	@Param			body	body		CreateInput	true	"Profile type and optional name"
//	@Success		201		{object}	Profile
//	@Header			201		{string}	Location	"URI of the created profile"
//	@Failure		401		{object}	respond.ProblemDetails
//	@Failure		422		{object}	respond.ProblemDetails
//	@Failure		507		{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles [post]
func (h *handler) create(c *echo.Context) error {
	var input CreateInput
	if err := bindValid(c, &input); err != nil {
		return err
	}
	m, uid, err := h.manager(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	typ := profilesvc.Type(input.Type)
	if typ == "" {
		typ = profilesvc.TypeProfessional
	}
	p, err := m.CreateProfile(ctx, profilesvc.CreateParams{Type: typ, Name: input.Name})
	if err != nil {
		audit(ctx, applog.AuditProfileCreate, uid, "", err, map[string]any{"type": string(typ)})
		return mapServiceError(ctx, err)
	}
	audit(ctx, applog.AuditProfileCreate, uid, p.ID, nil, map[string]any{"type": string(typ)})

	out, err := toHTTPProfile(p)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return respond.Created(c, "/v1/profiles/"+p.ID, out)
}

// initialize godoc
//
//	@Summary		Initialize profiles
//	@Description	Migrates a legacy single profile if present, then creates a default personal profile when the caller has none
//	@Tags			profiles
//	@Accept			json
//	@Produce		json,application/cbor
//	@Param			body	body		InitInput	true	"Username shown on the default profile"
//	@Success		200		{object}	ProfileList
//	@Failure		401		{object}	respond.ProblemDetails
//	@Failure		422		{object}	respond.ProblemDetails
//	@Failure		507		{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles/init [post]
func (h *handler) initialize(c *echo.Context) error {
	var input InitInput
	if err := bindValid(c, &input); err != nil {
		return err
	}
	m, uid, err := h.manager(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := m.MigrateOldProfile(ctx); err != nil {
		audit(ctx, applog.AuditProfileMigrate, uid, "", err, nil)
		return mapServiceError(ctx, err)
	}
	if err := m.InitializeProfiles(ctx, input.Username); err != nil {
		audit(ctx, applog.AuditProfileInit, uid, "", err, nil)
		return mapServiceError(ctx, err)
	}
	audit(ctx, applog.AuditProfileInit, uid, "", nil, nil)

	profiles, err := m.AllProfiles(ctx)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return h.writeList(c, m, profiles)
}

// getActive godoc
//
//	@Summary		Get active profile
//	@Description	Returns the active profile, falling back to the first one when the pointer is unset or stale
//	@Tags			profiles
//	@Produce		json,application/cbor
//	@Success		200	{object}	Profile
//	@Failure		401	{object}	respond.ProblemDetails
//	@Failure		404	{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles/active [get]
func (h *handler) getActive(c *echo.Context) error {
	m, _, err := h.manager(c)
	if err != nil {
		return err
	}
	p, err := m.ActiveProfile(c.Request().Context())
	if err != nil {
		return mapServiceError(c.Request().Context(), err)
	}
	if p == nil {
		return respond.Error404("no profiles")
	}
	return writeProfile(c, http.StatusOK, p)
}

// setActive godoc
//
//	@Summary		Select active profile
//	@Description	Stores the active profile pointer. The id is not checked; reads fall back to the first profile when it is stale.
//	@Tags			profiles
//	@Accept			json
//	@Param			body	body	SetActiveInput	true	"Profile id"
//	@Success		204
//	@Failure		401	{object}	respond.ProblemDetails
//	@Failure		422	{object}	respond.ProblemDetails
//	@Failure		507	{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles/active [put]
func (h *handler) setActive(c *echo.Context) error {
	var input SetActiveInput
	if err := bindValid(c, &input); err != nil {
		return err
	}
	m, uid, err := h.manager(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	err = m.SetActiveProfile(ctx, input.ID)
	audit(ctx, applog.AuditProfileSelect, uid, input.ID, err, nil)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// get godoc
//
//	@Summary		Get profile
//	@Tags			profiles
//	@Produce		json,application/cbor
//	@Param			id	path		string	true	"Profile id"
//	@Success		200	{object}	Profile
//	@Failure		401	{object}	respond.ProblemDetails
//	@Failure		404	{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles/{id} [get]
func (h *handler) get(c *echo.Context) error {
	m, _, err := h.manager(c)
	if err != nil {
		return err
	}
	p, err := m.ProfileByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(c.Request().Context(), err)
	}
	return writeProfile(c, http.StatusOK, p)
}

// update godoc
//
//	@Summary		Update profile data
//	@Description	Merges the body into the profile's data one level deep: each key replaces the stored value whole, and null clears it
//	@Tags			profiles
//	@Accept			json,application/cbor
//	@Produce		json,application/cbor
//	@Param			id		path		string			true	"Profile id"
//	@Param			body	body		object			true	"Flat data fields"
//	@Success		200		{object}	Profile
//	@Failure		400		{object}	respond.ProblemDetails
//	@Failure		401		{object}	respond.ProblemDetails
//	@Failure		404		{object}	respond.ProblemDetails
//	@Failure		422		{object}	respond.ProblemDetails
//	@Failure		507		{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles/{id} [patch]
func (h *handler) update(c *echo.Context) error {
	patch, err := decodePatch(c)
	if err != nil {
		return err
	}
	m, uid, err := h.manager(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	p, err := m.UpdateProfile(ctx, id, patch)
	audit(ctx, applog.AuditProfileUpdate, uid, id, err, map[string]any{"fields": len(patch)})
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return writeProfile(c, http.StatusOK, p)
}

// rename godoc
//
//	@Summary		Rename profile
//	@Tags			profiles
//	@Accept			json
//	@Produce		json,application/cbor
//	@Param			id		path		string		true	"Profile id"
//	@Param			body	body		RenameInput	true	"New name"
//	@Success		200		{object}	Profile
//	@Failure		401		{object}	respond.ProblemDetails
//	@Failure		404		{object}	respond.ProblemDetails
//	@Failure		422		{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles/{id}/name [put]
func (h *handler) rename(c *echo.Context) error {
	var input RenameInput
	if err := bindValid(c, &input); err != nil {
		return err
	}
	m, uid, err := h.manager(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	p, err := m.RenameProfile(ctx, id, input.Name)
	audit(ctx, applog.AuditProfileRename, uid, id, err, nil)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return writeProfile(c, http.StatusOK, p)
}

// delete godoc
//
//	@Summary		Delete profile
//	@Description	Deletes a profile and returns the remaining ones. The last remaining profile cannot be deleted.
//	@Tags			profiles
//	@Produce		json,application/cbor
//	@Param			id	path		string	true	"Profile id"
//	@Success		200	{object}	ProfileList
//	@Failure		401	{object}	respond.ProblemDetails
//	@Failure		404	{object}	respond.ProblemDetails
//	@Failure		409	{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles/{id} [delete]
func (h *handler) delete(c *echo.Context) error {
	m, uid, err := h.manager(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	remaining, err := m.DeleteUnlessLast(ctx, id)
	if err != nil {
		audit(ctx, applog.AuditProfileDelete, uid, id, err, nil)
		return mapServiceError(ctx, err)
	}
	audit(ctx, applog.AuditProfileDelete, uid, id, nil, map[string]any{"remaining": len(remaining)})
	return h.writeList(c, m, remaining)
}

// applyTheme godoc
//
//	@Summary		Apply theme
//	@Description	Overwrites the profile's colors, font and background with a preset
//	@Tags			profiles
//	@Accept			json
//	@Produce		json,application/cbor
//	@Param			id		path		string		true	"Profile id"
//	@Param			body	body		ThemeInput	true	"Theme id"
//	@Success		200		{object}	Profile
//	@Failure		401		{object}	respond.ProblemDetails
//	@Failure		404		{object}	respond.ProblemDetails
//	@Failure		422		{object}	respond.ProblemDetails
//	@Security		BearerAuth
//	@Router			/profiles/{id}/theme [post]
func (h *handler) applyTheme(c *echo.Context) error {
	var input ThemeInput
	if err := bindValid(c, &input); err != nil {
		return err
	}
	m, uid, err := h.manager(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	p, err := theme.Apply(ctx, m, id, input.ThemeID)
	audit(ctx, applog.AuditProfileTheme, uid, id, err, map[string]any{"theme": input.ThemeID})
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return writeProfile(c, http.StatusOK, p)
}

func mapServiceError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrNotFound):
		return respond.Error404("profile not found")
	case errors.Is(err, profilesvc.ErrLastProfile):
		return respond.Error409("cannot delete the last profile")
	case errors.Is(err, theme.ErrUnknownTheme):
		return respond.Error422("unknown theme")
	case errors.Is(err, profilesvc.ErrInvalidData):
		return respond.Error422(err.Error())
	case kvstore.IsQuotaExceeded(err):
		applog.LogWarn(ctx, "profile storage quota exceeded", slog.String("error", err.Error()))
		return respond.Error507("profile storage is full")
	default:
		applog.LogError(ctx, "unexpected service error", err)
		return respond.Error500("internal error")
	}
}
