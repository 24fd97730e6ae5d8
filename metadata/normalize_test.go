package metadata

import (
	"strconv"
	"testing"
	"time"

	"github.com/avelin-media/photovault/models"
)

func imageAsset() *models.Asset {
	return &models.Asset{
		ID:            "asset-1",
		OwnerID:       "owner-1",
		Type:          models.AssetTypeImage,
		OriginalPath:  "/library/owner-1/photo.jpg",
		FileCreatedAt: 1700000000,
	}
}

func TestNormalize_StringFallbackGuard(t *testing.T) {
	// the reader stringifies values it cannot parse; numeric fields must
	// come out nil instead of keeping the string form
	tags := TagSet{
		"FNumber":     "f/2.8 (corrupt)",
		"ISO":         "not-a-number",
		"FocalLength": "35mm-ish",
		"GPSLatitude": "48 deg 51' N",
	}

	record := Normalize(imageAsset(), tags, 1234)

	if record.FNumber != nil {
		t.Errorf("expected nil FNumber for string value, got %v", *record.FNumber)
	}
	if record.ISO != nil {
		t.Errorf("expected nil ISO for string value, got %v", *record.ISO)
	}
	if record.FocalLength != nil {
		t.Errorf("expected nil FocalLength for string value, got %v", *record.FocalLength)
	}
	if record.Latitude != nil {
		t.Errorf("expected nil Latitude for string value, got %v", *record.Latitude)
	}
}

func TestNormalize_NumericFields(t *testing.T) {
	tags := TagSet{
		"Make":        "Canon",
		"Model":       "EOS R5",
		"FNumber":     2.8,
		"ISO":         float64(400),
		"FocalLength": 35.0,
		"ImageWidth":  float64(8192),
		"ImageHeight": float64(5464),
	}

	record := Normalize(imageAsset(), tags, 99)

	if record.Make == nil || *record.Make != "Canon" {
		t.Errorf("unexpected Make: %v", record.Make)
	}
	if record.FNumber == nil || *record.FNumber != 2.8 {
		t.Errorf("unexpected FNumber: %v", record.FNumber)
	}
	if record.ISO == nil || *record.ISO != 400 {
		t.Errorf("unexpected ISO: %v", record.ISO)
	}
	if record.ExifImageWidth == nil || *record.ExifImageWidth != 8192 {
		t.Errorf("unexpected width: %v", record.ExifImageWidth)
	}
	if record.FileSizeInByte == nil || *record.FileSizeInByte != 99 {
		t.Errorf("unexpected file size: %v", record.FileSizeInByte)
	}
}

func TestNormalize_DateTimeOriginalFallsBackToFileCreation(t *testing.T) {
	asset := imageAsset()
	record := Normalize(asset, TagSet{"DateTimeOriginal": "garbage"}, 0)

	if record.DateTimeOriginal == nil || *record.DateTimeOriginal != asset.FileCreatedAt {
		t.Errorf("expected fallback to FileCreatedAt %d, got %v", asset.FileCreatedAt, record.DateTimeOriginal)
	}
}

func TestNormalize_DateTimeOriginalPrefersEarlierTag(t *testing.T) {
	want := time.Date(2023, 5, 14, 10, 30, 0, 0, time.UTC).Unix()
	tags := TagSet{
		"DateTimeOriginal": "2023:05:14 10:30:00Z",
		"CreateDate":       "2024:01:01 00:00:00Z",
	}

	record := Normalize(imageAsset(), tags, 0)

	if record.DateTimeOriginal == nil || *record.DateTimeOriginal != want {
		t.Errorf("expected DateTimeOriginal %d, got %v", want, record.DateTimeOriginal)
	}
}

func TestNormalize_LivePhotoCIDByAssetType(t *testing.T) {
	tags := TagSet{
		"MediaGroupUUID":    "group-token",
		"ContentIdentifier": "content-token",
	}

	image := imageAsset()
	imageRecord := Normalize(image, tags, 0)
	if imageRecord.LivePhotoCID == nil || *imageRecord.LivePhotoCID != "group-token" {
		t.Errorf("image asset should read MediaGroupUUID, got %v", imageRecord.LivePhotoCID)
	}

	video := imageAsset()
	video.Type = models.AssetTypeVideo
	videoRecord := Normalize(video, tags, 0)
	if videoRecord.LivePhotoCID == nil || *videoRecord.LivePhotoCID != "content-token" {
		t.Errorf("video asset should read ContentIdentifier, got %v", videoRecord.LivePhotoCID)
	}
}

func TestNormalize_ProjectionTypeUppercased(t *testing.T) {
	record := Normalize(imageAsset(), TagSet{"ProjectionType": "equirectangular"}, 0)
	if record.ProjectionType == nil || *record.ProjectionType != "EQUIRECTANGULAR" {
		t.Errorf("expected EQUIRECTANGULAR, got %v", record.ProjectionType)
	}
}

func TestResolveBitDepth(t *testing.T) {
	tests := []struct {
		name string
		tags TagSet
		want *int
	}{
		{
			name: "summed per-pixel depth collapses to per-channel",
			tags: TagSet{"BitsPerSample": float64(24)},
			want: intRef(8),
		},
		{
			name: "numeric string on a later alias",
			tags: TagSet{"ComponentBitDepth": "12"},
			want: intRef(12),
		},
		{
			name: "no candidates",
			tags: TagSet{},
			want: nil,
		},
		{
			name: "unparseable string is skipped",
			tags: TagSet{"BitsPerSample": "deep", "BitDepth": float64(10)},
			want: intRef(10),
		},
		{
			name: "30-bit summed depth collapses to 10",
			tags: TagSet{"BitDepth": float64(30)},
			want: intRef(10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBitDepth(tt.tags)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("got %v, want %v", ptrString(got), ptrString(tt.want))
			}
			if got != nil && *got != *tt.want {
				t.Errorf("got %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00.000"},
		{1.5, "0:00:01.500"},
		{61, "0:01:01.000"},
		{3661.25, "1:01:01.250"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDurationFromTags(t *testing.T) {
	if d := DurationFromTags(TagSet{"Duration": 12.345}); d == nil || *d != "0:00:12.345" {
		t.Errorf("unexpected duration: %v", d)
	}
	if d := DurationFromTags(TagSet{"Duration": "12.345"}); d != nil {
		t.Errorf("string duration should be rejected, got %v", *d)
	}
	if d := DurationFromTags(TagSet{}); d != nil {
		t.Errorf("absent duration should be nil, got %v", *d)
	}
}

func intRef(v int) *int { return &v }

func ptrString(v *int) string {
	if v == nil {
		return "<nil>"
	}
	return strconv.Itoa(*v)
}
