package metadata

import (
	"math"
	"strings"
	"time"
)

// TagSet is the flat key/value bag a metadata reader produces for one file.
// Values keep whatever runtime type the reader reported. Readers fall back to
// the raw string form whenever they cannot parse a value, so every typed
// getter refuses string values where a numeric or structured value was
// expected instead of trusting the reader's type claims.
type TagSet map[string]interface{}

// Merge returns a new TagSet containing every entry of t overlaid with every
// entry of other; other wins on key collision (sidecar over primary).
func (t TagSet) Merge(other TagSet) TagSet {
	merged := make(TagSet, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Float returns the named tag as a float64 if it carries a usable numeric
// value. String values are treated as absent.
func (t TagSet) Float(name string) (float64, bool) {
	v, ok := t[name]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Int returns the named tag as an int if it carries a usable numeric value.
func (t TagSet) Int(name string) (int, bool) {
	f, ok := t.Float(name)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Int64 returns the named tag as an int64 if it carries a usable numeric value.
func (t TagSet) Int64(name string) (int64, bool) {
	f, ok := t.Float(name)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// String returns the named tag rendered as a non-empty string.
func (t TagSet) String(name string) (string, bool) {
	v, ok := t[name]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimRight(strings.TrimSpace(s), "\x00")
	if s == "" {
		return "", false
	}
	return s, true
}

// Present reports whether the named tag carries a truthy marker value.
// Marker tags like MotionPhoto are written as 1/true by the various vendors.
func (t TagSet) Present(name string) bool {
	v, ok := t[name]
	if !ok || v == nil {
		return false
	}
	switch n := v.(type) {
	case bool:
		return n
	case float64:
		return n != 0
	case int:
		return n != 0
	case int64:
		return n != 0
	}
	return false
}

// exiftool renders timestamps with colon-separated dates; sub-second and
// zone suffixes vary by source device.
var dateLayouts = []string{
	"2006:01:02 15:04:05.999999999-07:00",
	"2006:01:02 15:04:05.999999999Z",
	"2006:01:02 15:04:05-07:00",
	"2006:01:02 15:04:05Z",
	"2006:01:02 15:04:05.999999999",
	"2006:01:02 15:04:05",
	time.RFC3339Nano,
}

// Time returns the named tag parsed as a timestamp. Tags that are not
// date-shaped strings are treated as absent.
func (t TagSet) Time(name string) (time.Time, bool) {
	s, ok := t.String(name)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil && parsed.Year() > 1 {
			return parsed, true
		}
	}
	return time.Time{}, false
}
