package metadata

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/avelin-media/photovault/models"
)

// date-ish tags in the order the original capture time is trusted
var dateTimeTags = []string{
	"SubSecDateTimeOriginal",
	"DateTimeOriginal",
	"SubSecCreateDate",
	"CreationDate",
	"CreateDate",
	"MediaCreateDate",
	"DateTimeCreated",
}

// the still and video halves of a live photo store the shared group token
// under different tag names depending on which half is being read
var livePhotoCIDTags = map[models.AssetType]string{
	models.AssetTypeVideo: "ContentIdentifier",
	models.AssetTypeImage: "MediaGroupUUID",
}

// legacy bit-depth aliases, most specific first
var bitDepthTags = []string{
	"BitsPerSample",
	"ComponentBitDepth",
	"ImagePixelDepth",
	"BitDepth",
	"ColorBitDepth",
}

// Normalize maps a raw tag set into the strict metadata record for asset.
// It is total: absent or unusable tags produce nil fields, never an error.
func Normalize(asset *models.Asset, tags TagSet, fileSize int64) *models.Exif {
	record := &models.Exif{AssetID: asset.ID}

	record.Make = stringPtr(tags, "Make")
	record.Model = stringPtr(tags, "Model")
	record.LensModel = stringPtr(tags, "LensModel")

	record.FNumber = floatPtr(tags, "FNumber")
	record.FocalLength = floatPtr(tags, "FocalLength")
	record.ISO = intPtr(tags, "ISO")
	record.ExposureTime = stringPtr(tags, "ExposureTime")
	record.Orientation = stringPtr(tags, "Orientation")

	record.ExifImageWidth = firstIntPtr(tags, "ExifImageWidth", "ImageWidth")
	record.ExifImageHeight = firstIntPtr(tags, "ExifImageHeight", "ImageHeight")
	record.BitsPerSample = ResolveBitDepth(tags)

	record.Latitude = floatPtr(tags, "GPSLatitude")
	record.Longitude = floatPtr(tags, "GPSLongitude")

	record.TimeZone = stringPtr(tags, "tz")

	dateTaken := asset.FileCreatedAt
	for _, tag := range dateTimeTags {
		if t, ok := tags.Time(tag); ok {
			dateTaken = t.Unix()
			break
		}
	}
	record.DateTimeOriginal = &dateTaken

	if t, ok := tags.Time("ModifyDate"); ok {
		ts := t.Unix()
		record.ModifyDate = &ts
	}

	if cid, ok := tags.String(livePhotoCIDTags[asset.Type]); ok {
		record.LivePhotoCID = &cid
	}

	if projection, ok := tags.String("ProjectionType"); ok {
		upper := strings.ToUpper(projection)
		record.ProjectionType = &upper
	}

	if fileSize > 0 {
		record.FileSizeInByte = &fileSize
	}

	return record
}

// ResolveBitDepth picks the canonical per-channel bit depth from the legacy
// alias tags. A summed per-pixel depth (24 = 8+8+8) collapses to its
// per-channel form. Returns nil when no alias parses.
func ResolveBitDepth(tags TagSet) *int {
	for _, tag := range bitDepthTags {
		v, ok := finiteNumber(tags[tag])
		if !ok {
			continue
		}
		depth := int(v)
		if depth >= 24 && depth%3 == 0 {
			depth /= 3
		}
		return &depth
	}
	return nil
}

// finiteNumber coerces a raw tag value to a finite float64. Unlike the
// TagSet getters it also accepts numeric strings, since several of the
// bit-depth aliases are written as strings by older encoders.
func finiteNumber(v interface{}) (float64, bool) {
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
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// DurationFromTags formats the raw seconds-valued Duration tag as H:MM:SS.mmm,
// the form the asset record stores. Returns nil when the tag is absent.
func DurationFromTags(tags TagSet) *string {
	seconds, ok := tags.Float("Duration")
	if !ok || seconds < 0 {
		return nil
	}
	formatted := FormatDuration(seconds)
	return &formatted
}

// FormatDuration renders a duration in seconds as H:MM:SS.mmm.
func FormatDuration(seconds float64) string {
	whole := int64(seconds)
	millis := int64(math.Round((seconds - float64(whole)) * 1000))
	if millis >= 1000 {
		whole++
		millis -= 1000
	}
	h := whole / 3600
	m := (whole % 3600) / 60
	s := whole % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, millis)
}

func stringPtr(tags TagSet, name string) *string {
	if v, ok := tags.String(name); ok {
		return &v
	}
	return nil
}

func floatPtr(tags TagSet, name string) *float64 {
	if v, ok := tags.Float(name); ok {
		return &v
	}
	return nil
}

func intPtr(tags TagSet, name string) *int {
	if v, ok := tags.Int(name); ok {
		return &v
	}
	return nil
}

func firstIntPtr(tags TagSet, names ...string) *int {
	for _, name := range names {
		if p := intPtr(tags, name); p != nil {
			return p
		}
	}
	return nil
}
