package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Fields is an untyped, flat set of data keys, as sent by an editor or stored
// by a template. Values are anything encoding/json can marshal.
type Fields map[string]any

// Data is the presentation bag of a profile. Fields every consumer depends on
// are typed; any other key, or a known key holding a value of another type, is
// kept verbatim in Extra and serialized flat next to them. A set typed field
// wins over an Extra entry of the same name.
type Data struct {
	DisplayName   string            `json:"displayName,omitempty"`
	Description   string            `json:"description,omitempty"`
	Username      string            `json:"username,omitempty"`
	BgColor       string            `json:"bgColor,omitempty"`
	BlockColor    string            `json:"blockColor,omitempty"`
	NameColor     string            `json:"nameColor,omitempty"`
	DescColor     string            `json:"descColor,omitempty"`
	FontFamily    string            `json:"fontFamily,omitempty"`
	BgImage       string            `json:"bgImage,omitempty"`
	BgOverlay     string            `json:"bgOverlay,omitempty"`
	Layout        string            `json:"layout,omitempty"`
	SocialLinks   map[string]string `json:"socialLinks"`
	SectionColors map[string]string `json:"sectionColors"`
	IsPublic      *bool             `json:"isPublic"`
	HasAudio      *bool             `json:"hasAudio"`
	AudioURL      string            `json:"audioUrl,omitempty"`
	AudioStart    *float64          `json:"audioStartTime"`
	AudioEnd      *float64          `json:"audioEndTime"`
	VideoURL      string            `json:"videoUrl,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownKeys are the JSON names of the typed Data fields.
var knownKeys = map[string]struct{}{
	"displayName": {}, "description": {}, "username": {},
	"bgColor": {}, "blockColor": {}, "nameColor": {}, "descColor": {},
	"fontFamily": {}, "bgImage": {}, "bgOverlay": {}, "layout": {},
	"socialLinks": {}, "sectionColors": {}, "isPublic": {}, "hasAudio": {},
	"audioUrl": {}, "audioStartTime": {}, "audioEndTime": {}, "videoUrl": {},
}

// dataFields has Data's layout without its methods.
type dataFields Data

var jsonNull = []byte("null")

// Public reports whether the page may be shown to visitors. Profiles that
// never stored the flag are public.
func (d Data) Public() bool {
	return d.IsPublic == nil || *d.IsPublic
}

// MarshalJSON writes typed and extra fields as one flat object. Unset typed
// fields are omitted.
func (d Data) MarshalJSON() ([]byte, error) {
	obj, err := d.object()
	if err != nil {
		return nil, err
	}
	return json.Marshal(obj)
}

// UnmarshalJSON reads a flat object. A key fills a typed field only when it
// matches the field name exactly and its value fits the field type; every
// other key is kept in Extra. A JSON null leaves d unchanged.
func (d *Data) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("profile data: %w", err)
	}
	if raw == nil {
		return nil
	}

	typed := make(map[string]json.RawMessage, len(raw))
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if _, known := knownKeys[k]; known && checkField(k, v) == nil {
			typed[k] = v
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}

	tb, err := json.Marshal(typed)
	if err != nil {
		return fmt.Errorf("profile data: %w", err)
	}
	var out dataFields
	if err := json.Unmarshal(tb, &out); err != nil {
		return fmt.Errorf("profile data: %w", err)
	}
	out.Extra = extra

	*d = Data(out)
	return nil
}

// checkField reports whether v decodes into the typed field named k.
func checkField(k string, v json.RawMessage) error {
	b, err := json.Marshal(map[string]json.RawMessage{k: v})
	if err != nil {
		return err
	}
	var scratch dataFields
	return json.Unmarshal(b, &scratch)
}

// Fields returns the data as an untyped flat map.
func (d Data) Fields() (Fields, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out Fields
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge returns d with patch spread over it one level deep: each key in patch
// replaces the whole stored value, nested objects included. A patch value for
// a typed field must fit its type.
func (d Data) Merge(patch Fields) (Data, error) {
	obj, err := d.object()
	if err != nil {
		return Data{}, err
	}
	for k, v := range patch {
		b, err := json.Marshal(v)
		if err != nil {
			return Data{}, fmt.Errorf("%w: %s: %w", ErrInvalidData, k, err)
		}
		if _, known := knownKeys[k]; known {
			if err := checkField(k, b); err != nil {
				return Data{}, fmt.Errorf("%w: %s: %w", ErrInvalidData, k, err)
			}
		}
		obj[k] = b
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return Data{}, err
	}
	var out Data
	if err := out.UnmarshalJSON(b); err != nil {
		return Data{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return out, nil
}

// DataFromFields builds Data from an untyped map.
func DataFromFields(f Fields) (Data, error) {
	return Data{}.Merge(f)
}

func (d Data) object() (map[string]json.RawMessage, error) {
	b, err := json.Marshal(dataFields(d))
	if err != nil {
		return nil, err
	}
	obj := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, err
	}
	for k, v := range obj {
		if bytes.Equal(v, jsonNull) {
			delete(obj, k)
		}
	}
	for k, v := range d.Extra {
		if _, set := obj[k]; set {
			continue
		}
		obj[k] = v
	}
	return obj, nil
}
