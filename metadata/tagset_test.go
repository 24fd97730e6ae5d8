package metadata

import "testing"

func TestTagSetMerge_SidecarWins(t *testing.T) {
	primary := TagSet{"Make": "Canon", "ISO": float64(100)}
	sidecar := TagSet{"Make": "Nikon", "LensModel": "50mm"}

	merged := primary.Merge(sidecar)

	if v, _ := merged.String("Make"); v != "Nikon" {
		t.Errorf("sidecar value should win on collision, got %q", v)
	}
	if _, ok := merged.Float("ISO"); !ok {
		t.Error("primary-only key lost in merge")
	}
	if v, _ := merged.String("LensModel"); v != "50mm" {
		t.Errorf("sidecar-only key missing, got %q", v)
	}
	if len(primary) != 2 {
		t.Error("merge must not mutate the receiver")
	}
}

func TestTagSetFloat_RejectsStrings(t *testing.T) {
	tags := TagSet{"A": "1.5", "B": 1.5, "C": nil}

	if _, ok := tags.Float("A"); ok {
		t.Error("string value must not parse as float")
	}
	if v, ok := tags.Float("B"); !ok || v != 1.5 {
		t.Errorf("float value lost: %v %t", v, ok)
	}
	if _, ok := tags.Float("C"); ok {
		t.Error("nil value must be absent")
	}
	if _, ok := tags.Float("missing"); ok {
		t.Error("missing key must be absent")
	}
}

func TestTagSetString_TrimsAndRejectsNonStrings(t *testing.T) {
	tags := TagSet{"A": "  Canon\x00", "B": float64(5)}

	if v, ok := tags.String("A"); !ok || v != "Canon" {
		t.Errorf("expected trimmed string, got %q %t", v, ok)
	}
	if _, ok := tags.String("B"); ok {
		t.Error("numeric value must not read as string")
	}
}

func TestTagSetPresent(t *testing.T) {
	tags := TagSet{
		"MarkerInt":   float64(1),
		"MarkerBool":  true,
		"MarkerZero":  float64(0),
		"MarkerWords": "yes",
	}

	if !tags.Present("MarkerInt") || !tags.Present("MarkerBool") {
		t.Error("truthy markers should be present")
	}
	if tags.Present("MarkerZero") {
		t.Error("zero marker should be absent")
	}
	if tags.Present("MarkerWords") {
		t.Error("string marker should be absent per type guard")
	}
	if tags.Present("nope") {
		t.Error("missing marker should be absent")
	}
}

func TestTagSetTime(t *testing.T) {
	tags := TagSet{
		"Plain":   "2023:05:14 10:30:00",
		"Zoned":   "2023:05:14 10:30:00+02:00",
		"Subsec":  "2023:05:14 10:30:00.123",
		"Garbage": "yesterday-ish",
		"Number":  float64(1700000000),
	}

	if _, ok := tags.Time("Plain"); !ok {
		t.Error("plain exif timestamp should parse")
	}
	if parsed, ok := tags.Time("Zoned"); !ok {
		t.Error("zoned exif timestamp should parse")
	} else if _, offset := parsed.Zone(); offset != 2*3600 {
		t.Errorf("zone offset lost: %d", offset)
	}
	if _, ok := tags.Time("Subsec"); !ok {
		t.Error("sub-second exif timestamp should parse")
	}
	if _, ok := tags.Time("Garbage"); ok {
		t.Error("garbage must not parse")
	}
	if _, ok := tags.Time("Number"); ok {
		t.Error("numeric value must not parse as time")
	}
}
