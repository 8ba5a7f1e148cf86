package profile

import (
	"github.com/janisto/linkbio/internal/platform/timeutil"
	profilesvc "github.com/janisto/linkbio/internal/service/profile"
)

// Profile is the response shape of one profile. Data is flat: typed fields
// and any layout-specific keys side by side.
type Profile struct {
	ID        string         `json:"id"                  cbor:"id"                  example:"profile_01929d6e-8f3a-7cc2-9b1e-3f0c2d4a5b6c"`
	Type      string         `json:"type"                cbor:"type"                example:"personal"`
	Name      string         `json:"name"                cbor:"name"                example:"Personal Profile"`
	CreatedAt timeutil.Time  `json:"createdAt"           cbor:"createdAt"           example:"2026-01-15T10:30:00.000Z"`
	UpdatedAt *timeutil.Time `json:"updatedAt,omitempty" cbor:"updatedAt,omitempty" example:"2026-01-16T08:00:00.000Z"`
	Data      map[string]any `json:"data"                cbor:"data"`
}

// ProfileList is the user's profiles with the stored active pointer, which
// is null when unset.
type ProfileList struct {
	Profiles        []Profile `json:"profiles"        cbor:"profiles"`
	ActiveProfileID *string   `json:"activeProfileId" cbor:"activeProfileId" example:"profile_01929d6e-8f3a-7cc2-9b1e-3f0c2d4a5b6c"`
}

func toHTTPProfile(p *profilesvc.Profile) (Profile, error) {
	data, err := p.Data.Fields()
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:        p.ID,
		Type:      string(p.Type),
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Data:      data,
	}, nil
}

func toHTTPProfileList(profiles []profilesvc.Profile, activeID string, hasActive bool) (ProfileList, error) {
	out := ProfileList{Profiles: make([]Profile, 0, len(profiles))}
	for i := range profiles {
		p, err := toHTTPProfile(&profiles[i])
		if err != nil {
			return ProfileList{}, err
		}
		out.Profiles = append(out.Profiles, p)
	}
	if hasActive {
		out.ActiveProfileID = &activeID
	}
	return out, nil
}
