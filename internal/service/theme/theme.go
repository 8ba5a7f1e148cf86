// Package theme holds the preset color and font combinations a user can apply
// to a profile in one step.
package theme

import (
	"context"
	"errors"
	"fmt"

	"github.com/janisto/linkbio/internal/service/profile"
)

// ErrUnknownTheme is returned by Apply for an id not in the registry.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is a named preset of the visual fields shared by every layout.
type Theme struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BgColor    string `json:"bgColor"`
	BlockColor string `json:"blockColor"`
	NameColor  string `json:"nameColor"`
	DescColor  string `json:"descColor"`
	FontFamily string `json:"fontFamily"`
	BgImage    string `json:"bgImage"`
	BgOverlay  string `json:"bgOverlay"`
}

// Fields returns the profile data patch that applies t. Empty background
// fields are included so a previous theme's image does not linger.
func (t Theme) Fields() profile.Fields {
	return profile.Fields{
		"bgColor":    t.BgColor,
		"blockColor": t.BlockColor,
		"nameColor":  t.NameColor,
		"descColor":  t.DescColor,
		"fontFamily": t.FontFamily,
		"bgImage":    t.BgImage,
		"bgOverlay":  t.BgOverlay,
	}
}

var themes = []Theme{
	{ID: "light", Name: "Light", BgColor: "#ffffff", BlockColor: "#f3f4f6", NameColor: "#111827", DescColor: "#4b5563", FontFamily: "Inter"},
	{ID: "dark", Name: "Dark", BgColor: "#111827", BlockColor: "#1f2937", NameColor: "#f9fafb", DescColor: "#9ca3af", FontFamily: "Inter"},
	{ID: "ocean", Name: "Ocean", BgColor: "#0c4a6e", BlockColor: "#0369a1", NameColor: "#e0f2fe", DescColor: "#bae6fd", FontFamily: "Poppins"},
	{ID: "sunset", Name: "Sunset", BgColor: "#7c2d12", BlockColor: "#ea580c", NameColor: "#fff7ed", DescColor: "#fed7aa", FontFamily: "Montserrat"},
	{ID: "forest", Name: "Forest", BgColor: "#14532d", BlockColor: "#166534", NameColor: "#f0fdf4", DescColor: "#bbf7d0", FontFamily: "Nunito"},
	{ID: "pastel", Name: "Pastel", BgColor: "#fdf2f8", BlockColor: "#fce7f3", NameColor: "#831843", DescColor: "#9d174d", FontFamily: "Quicksand"},
	{
		ID: "neon", Name: "Neon", BgColor: "#0a0a0a", BlockColor: "#18181b", NameColor: "#22d3ee", DescColor: "#a78bfa", FontFamily: "Space Grotesk",
		BgImage: "https://images.unsplash.com/photo-1550684376-efcbd6e3f031", BgOverlay: "rgba(0, 0, 0, 0.6)",
	},
	{ID: "paper", Name: "Paper", BgColor: "#faf8f3", BlockColor: "#ffffff", NameColor: "#292524", DescColor: "#57534e", FontFamily: "Georgia"},
}

// Themes returns every preset in display order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// Lookup finds a preset by id.
func Lookup(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// Updater is the part of profile.Manager that Apply needs.
type Updater interface {
	UpdateProfile(ctx context.Context, id string, updates profile.Fields) (*profile.Profile, error)
}

// Apply writes the theme's fields to the profile through a normal update.
func Apply(ctx context.Context, u Updater, profileID, themeID string) (*profile.Profile, error) {
	t, ok := Lookup(themeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, themeID)
	}
	return u.UpdateProfile(ctx, profileID, t.Fields())
}
