// Package date provides a Timestamp type that accepts the timestamp shapes the
// Task API emits and renders them for display.
package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DisplayFormat is the default layout for creation dates in the UI.
const DisplayFormat = "2006-01-02"

// layouts are tried in order when parsing. Naive layouts (no zone) are read
// as UTC, matching servers that serialize UTC datetimes without an offset.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DisplayFormat,
}

// Timestamp is a point in time decoded from the Task API.
type Timestamp struct {
	time.Time
}

// New wraps t as a Timestamp.
func New(t time.Time) Timestamp {
	return Timestamp{t}
}

// Parse parses s using the accepted layouts.
func Parse(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q: expected ISO 8601", s)
}

// Display formats the timestamp in local time using layout. A zero
// timestamp renders as an empty string.
func (ts Timestamp) Display(layout string) string {
	if ts.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DisplayFormat
	}
	return ts.Local().Format(layout)
}

// String returns the timestamp as RFC 3339.
func (ts Timestamp) String() string {
	return ts.Format(time.RFC3339)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler. null and "" decode to the zero value.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
