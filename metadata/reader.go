package metadata

import (
	"fmt"
	"log"

	exiftool "github.com/barasher/go-exiftool"
)

// Reader produces the raw tag set for a single file. Implementations never
// interpret tag values; normalization happens downstream.
type Reader interface {
	Read(path string) (TagSet, error)
	Close() error
}

// ExiftoolReader reads tags through a long-lived exiftool process. It is the
// primary reader; numeric output is requested so tag values arrive typed
// instead of display-formatted.
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

// NewExiftoolReader starts the backing exiftool process. Callers must Close
// the reader when done with it.
func NewExiftoolReader() (*ExiftoolReader, error) {
	et, err := exiftool.NewExiftool(exiftool.NoPrintConversion())
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExiftoolReader{et: et}, nil
}

// Read extracts the flat tag set for path.
func (r *ExiftoolReader) Read(path string) (TagSet, error) {
	fis := r.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return nil, fmt.Errorf("exiftool returned no result for %s", path)
	}
	fi := fis[0]
	if fi.Err != nil {
		return nil, fmt.Errorf("exiftool extract failed for %s: %w", path, fi.Err)
	}

	tags := make(TagSet, len(fi.Fields))
	for k, v := range fi.Fields {
		tags[k] = v
	}
	return tags, nil
}

// Close shuts down the backing exiftool process.
func (r *ExiftoolReader) Close() error {
	if err := r.et.Close(); err != nil {
		log.Printf("metadata: error closing exiftool: %v", err)
		return err
	}
	return nil
}
