package dto

import (
	"strings"
	"time"
)

// FlexTime is a lenient timestamp for request bodies. It accepts RFC 3339,
// a bare date, or a date with a space-separated time; anything unparseable
// (including null and empty strings) decodes as absent rather than failing
// the whole request.
type FlexTime struct {
	t  time.Time
	ok bool
}

var flexLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = FlexTime{}
		return nil
	}
	for _, layout := range flexLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*f = FlexTime{t: t.UTC(), ok: true}
			return nil
		}
	}
	*f = FlexTime{}
	return nil
}

// Time returns the parsed time, or nil if the value was absent or
// unparseable.
func (f *FlexTime) Time() *time.Time {
	if f == nil || !f.ok {
		return nil
	}
	t := f.t
	return &t
}
