package metadata

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// GoexifReader is a pure-Go fallback used when no exiftool binary is
// installed. It covers JPEG/TIFF EXIF blocks only; container-level tags
// (motion-photo directories, sidecar XMP) are invisible to it.
type GoexifReader struct{}

func NewGoexifReader() *GoexifReader {
	return &GoexifReader{}
}

// a handful of goexif field names differ from the exiftool vocabulary the
// normalizer expects
var goexifRenames = map[exif.FieldName]string{
	exif.ISOSpeedRatings: "ISO",
	exif.PixelXDimension: "ExifImageWidth",
	exif.PixelYDimension: "ExifImageHeight",
}

type tagCollector struct {
	tags TagSet
}

func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	key := string(name)
	if renamed, ok := goexifRenames[name]; ok {
		key = renamed
	}

	switch tag.Format() {
	case tiff.IntVal:
		if v, err := tag.Int64(0); err == nil {
			c.tags[key] = float64(v)
		}
	case tiff.FloatVal:
		if v, err := tag.Float(0); err == nil {
			c.tags[key] = v
		}
	case tiff.RatVal:
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			c.tags[key] = float64(num) / float64(den)
		}
	case tiff.StringVal:
		if v, err := tag.StringVal(); err == nil {
			c.tags[key] = v
		}
	}
	return nil
}

// Read decodes the EXIF block of path into a flat tag set.
func (r *GoexifReader) Read(path string) (TagSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	tags := make(TagSet)

	config, _, err := image.DecodeConfig(file)
	if err == nil {
		tags["ImageWidth"] = float64(config.Width)
		tags["ImageHeight"] = float64(config.Height)
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to seek file %s: %w", path, err)
	}

	exifData, err := exif.Decode(file)
	if err != nil {
		// the file may simply lack an EXIF block; dimensions alone are
		// still a usable result
		log.Printf("metadata: no EXIF data for %s: %v", path, err)
		return tags, nil
	}

	collector := &tagCollector{tags: tags}
	if err := exifData.Walk(collector); err != nil {
		return nil, fmt.Errorf("failed to walk EXIF fields of %s: %w", path, err)
	}

	// goexif stores GPS as rational triplets; expose the decimal form the
	// normalizer reads
	if lat, lon, err := exifData.LatLong(); err == nil {
		tags["GPSLatitude"] = lat
		tags["GPSLongitude"] = lon
	}

	return tags, nil
}

// Close is a no-op; the fallback reader holds no external process.
func (r *GoexifReader) Close() error {
	return nil
}
