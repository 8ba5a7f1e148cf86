package profile

// CreateInput for POST /profiles.
type CreateInput struct {
	Type string `json:"type" validate:"omitempty,oneof=professional freelance personal creative business vtree resume"`
	Name string `json:"name" validate:"omitempty,notblank,max=100"`
}

// InitInput for POST /profiles/init.
type InitInput struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
}

// SetActiveInput for PUT /profiles/active.
type SetActiveInput struct {
	ID string `json:"id" validate:"required,max=128"`
}

// RenameInput for PUT /profiles/{id}/name.
type RenameInput struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

// ThemeInput for POST /profiles/{id}/theme.
type ThemeInput struct {
	ThemeID string `json:"themeId" validate:"required"`
}
