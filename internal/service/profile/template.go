package profile

import "maps"

// Template is the static starting point for a profile type.
type Template struct {
	Type            Type     `json:"type"`
	Label           string   `json:"label"`
	DefaultSettings Fields   `json:"defaultSettings"`
	Placeholders    Fields   `json:"placeholders"`
	Hints           []string `json:"hints"`
}

// DefaultName is the name given to profiles created without one.
func (t Template) DefaultName() string {
	return t.Label + " Profile"
}

// placeholderKeys are only filled from the template when the existing value is empty.
var placeholderKeys = []string{"displayName", "description"}

var templates = map[Type]Template{
	TypeProfessional: {
		Type:  TypeProfessional,
		Label: "Professional",
		DefaultSettings: Fields{
			"bgColor":    "#f5f7fa",
			"blockColor": "#ffffff",
			"nameColor":  "#1a202c",
			"descColor":  "#4a5568",
			"fontFamily": "Inter",
			"layout":     "classic",
		},
		Placeholders: Fields{
			"displayName": "Your Name",
			"description": "Senior engineer building reliable products",
		},
		Hints: []string{
			"Lead with your current role and company",
			"Link your portfolio and LinkedIn first",
		},
	},
	TypeFreelance: {
		Type:  TypeFreelance,
		Label: "Freelance",
		DefaultSettings: Fields{
			"bgColor":    "#fffaf0",
			"blockColor": "#fefcbf",
			"nameColor":  "#744210",
			"descColor":  "#975a16",
			"fontFamily": "Poppins",
			"layout":     "grid",
		},
		Placeholders: Fields{
			"displayName": "Your Studio",
			"description": "Available for new projects",
		},
		Hints: []string{
			"State what you offer and your availability",
			"Add a booking or contact link",
		},
	},
	TypePersonal: {
		Type:  TypePersonal,
		Label: "Personal",
		DefaultSettings: Fields{
			"bgColor":    "#ffffff",
			"blockColor": "#f7fafc",
			"nameColor":  "#2d3748",
			"descColor":  "#718096",
			"fontFamily": "Nunito",
			"layout":     "minimal",
		},
		Placeholders: Fields{
			"displayName": "Hi, I'm ...",
			"description": "A few words about me",
		},
		Hints: []string{
			"Share what you're into right now",
		},
	},
	TypeCreative: {
		Type:  TypeCreative,
		Label: "Creative",
		DefaultSettings: Fields{
			"bgColor":    "#1a1a2e",
			"blockColor": "#16213e",
			"nameColor":  "#e94560",
			"descColor":  "#f5f5f5",
			"fontFamily": "Playfair Display",
			"layout":     "gallery",
		},
		Placeholders: Fields{
			"displayName": "Artist Name",
			"description": "Visual stories and experiments",
		},
		Hints: []string{
			"Pin your strongest piece at the top",
			"Use a background image that shows your style",
		},
	},
	TypeBusiness: {
		Type:  TypeBusiness,
		Label: "Business",
		DefaultSettings: Fields{
			"bgColor":    "#f0f4f8",
			"blockColor": "#0a66c2",
			"nameColor":  "#102a43",
			"descColor":  "#486581",
			"fontFamily": "Roboto",
			"layout":     "linkedin",
		},
		Placeholders: Fields{
			"displayName": "Company Name",
			"description": "What your company does in one line",
		},
		Hints: []string{
			"Add opening hours and location",
			"Link your main storefront or booking page",
		},
	},
	TypeVTree: {
		Type:  TypeVTree,
		Label: "VTree",
		DefaultSettings: Fields{
			"bgColor":    "#0f0f0f",
			"blockColor": "#262626",
			"nameColor":  "#ffffff",
			"descColor":  "#a3a3a3",
			"fontFamily": "Montserrat",
			"layout":     "vtree",
		},
		Placeholders: Fields{
			"displayName": "@handle",
			"description": "New video every week",
		},
		Hints: []string{
			"Add a short intro video",
			"Keep links to your channels near the top",
		},
	},
	TypeResume: {
		Type:  TypeResume,
		Label: "Resume",
		DefaultSettings: Fields{
			"bgColor":    "#ffffff",
			"blockColor": "#edf2f7",
			"nameColor":  "#1a365d",
			"descColor":  "#2a4365",
			"fontFamily": "Georgia",
			"layout":     "resume",
		},
		Placeholders: Fields{
			"displayName": "Full Name",
			"description": "Role you're looking for",
		},
		Hints: []string{
			"List experience newest first",
			"Keep the summary under three sentences",
		},
	},
}

// GetTemplate returns the template for t, or the professional template when t is unknown.
func GetTemplate(t Type) Template {
	if tpl, ok := templates[t]; ok {
		return tpl
	}
	return templates[TypeProfessional]
}

// Templates returns all templates in Types order.
func Templates() []Template {
	out := make([]Template, 0, len(Types))
	for _, t := range Types {
		out = append(out, templates[t])
	}
	return out
}

// ApplyTemplate overlays existing on the template defaults for t. Every
// existing key wins except displayName and description, which keep the
// template placeholder unless the existing value is non-empty.
func ApplyTemplate(t Type, existing Fields) Fields {
	tpl := GetTemplate(t)

	out := make(Fields, len(tpl.DefaultSettings)+len(existing))
	maps.Copy(out, tpl.DefaultSettings)
	maps.Copy(out, existing)
	for _, k := range placeholderKeys {
		if v, ok := existing[k]; ok && !isEmptyValue(v) {
			continue
		}
		if p, ok := tpl.Placeholders[k]; ok {
			out[k] = p
		}
	}
	return out
}

func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	default:
		return false
	}
}
