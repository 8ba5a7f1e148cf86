package catalog

// Template describes a profile type and the settings new profiles of that
// type start with.
type Template struct {
	Type            string         `json:"type"            cbor:"type"            example:"creative"`
	Label           string         `json:"label"           cbor:"label"           example:"Creative"`
	DefaultName     string         `json:"defaultName"     cbor:"defaultName"     example:"Creative Profile"`
	DefaultSettings map[string]any `json:"defaultSettings" cbor:"defaultSettings"`
	Placeholders    map[string]any `json:"placeholders"    cbor:"placeholders"`
	Hints           []string       `json:"hints"           cbor:"hints"`
}

// Theme is a preset of colors, font and background.
type Theme struct {
	ID         string `json:"id"                  cbor:"id"                  example:"dark"`
	Name       string `json:"name"                cbor:"name"                example:"Dark"`
	BgColor    string `json:"bgColor"             cbor:"bgColor"             example:"#111827"`
	BlockColor string `json:"blockColor"          cbor:"blockColor"          example:"#1f2937"`
	NameColor  string `json:"nameColor"           cbor:"nameColor"           example:"#f9fafb"`
	DescColor  string `json:"descColor"           cbor:"descColor"           example:"#9ca3af"`
	FontFamily string `json:"fontFamily"          cbor:"fontFamily"          example:"Inter"`
	BgImage    string `json:"bgImage,omitempty"   cbor:"bgImage,omitempty"`
	BgOverlay  string `json:"bgOverlay,omitempty" cbor:"bgOverlay,omitempty"`
}

// TemplateList wraps the template catalog.
type TemplateList struct {
	Templates []Template `json:"templates" cbor:"templates"`
}

// ThemeList wraps the theme catalog.
type ThemeList struct {
	Themes []Theme `json:"themes" cbor:"themes"`
}
