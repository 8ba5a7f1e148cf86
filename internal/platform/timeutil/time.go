// Package timeutil provides a timestamp type that serializes the way browsers
// do with Date.prototype.toISOString: UTC, millisecond precision, "Z" suffix.
package timeutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

const (
	// RFC3339Millis is the canonical wire format for persisted timestamps.
	RFC3339Millis = "2006-01-02T15:04:05.000Z07:00"
	// RFC3339Micros is used for log timestamps.
	RFC3339Micros = "2006-01-02T15:04:05.000000Z07:00"
)

// Time wraps time.Time with millisecond JSON and CBOR encodings.
type Time struct {
	time.Time
}

// NewTime wraps t.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// Now returns the current time truncated to milliseconds.
func Now() Time {
	return Time{Time: time.Now().UTC().Truncate(time.Millisecond)}
}

// String formats the time in RFC3339Millis.
func (t Time) String() string {
	return t.UTC().Format(RFC3339Millis)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts RFC 3339 strings with any fractional precision.
// A JSON null leaves the value unchanged.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timeutil: expected string: %w", err)
	}
	parsed, err := parse(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalCBOR encodes the time as a tag 0 (standard date/time string) item.
func (t Time) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{Number: 0, Content: t.String()})
}

// UnmarshalCBOR accepts a tag 0 item or a bare text string.
func (t *Time) UnmarshalCBOR(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("timeutil: empty cbor data")
	}

	var s string
	var tag cbor.RawTag
	if err := cbor.Unmarshal(data, &tag); err == nil {
		if tag.Number != 0 {
			return fmt.Errorf("timeutil: unexpected cbor tag %d", tag.Number)
		}
		if err := cbor.Unmarshal(tag.Content, &s); err != nil {
			return fmt.Errorf("timeutil: tag content: %w", err)
		}
	} else if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timeutil: expected cbor text string: %w", err)
	}

	parsed, err := parse(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parse(s string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid timestamp %q: %w", s, err)
	}
	return parsed.UTC(), nil
}
