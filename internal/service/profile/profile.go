// Package profile manages a user's saved page configurations (profiles) and
// the pointer to the one currently being edited. State lives in a kvstore.Store
// as a JSON array of profiles plus a bare active-id string.
package profile

import (
	"errors"

	"github.com/janisto/linkbio/internal/platform/timeutil"
)

// Type selects the template a profile was created from.
type Type string

const (
	TypeProfessional Type = "professional"
	TypeFreelance    Type = "freelance"
	TypePersonal     Type = "personal"
	TypeCreative     Type = "creative"
	TypeBusiness     Type = "business"
	TypeVTree        Type = "vtree"
	TypeResume       Type = "resume"
)

// Types lists every known profile type in display order.
var Types = []Type{
	TypeProfessional,
	TypeFreelance,
	TypePersonal,
	TypeCreative,
	TypeBusiness,
	TypeVTree,
	TypeResume,
}

// Valid reports whether t is a known profile type.
func (t Type) Valid() bool {
	_, ok := templates[t]
	return ok
}

var (
	// ErrNotFound is returned when no profile has the requested id.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidData is returned when an update does not fit a typed data field.
	ErrInvalidData = errors.New("invalid profile data")
	// ErrLastProfile is returned by DeleteUnlessLast for a user's only profile.
	ErrLastProfile = errors.New("cannot delete the last profile")
)

// Profile is one saved configuration of a user's page.
type Profile struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Name      string         `json:"name"`
	CreatedAt timeutil.Time  `json:"createdAt"`
	UpdatedAt *timeutil.Time `json:"updatedAt,omitempty"`
	Data      Data           `json:"data"`
}

// CreateParams holds the inputs of CreateProfile. An empty Name uses the
// template label, e.g. "Business Profile".
type CreateParams struct {
	Type Type
	Name string
}
