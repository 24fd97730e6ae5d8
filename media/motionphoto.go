package media

import (
	"fmt"
	"io"
	"os"

	"github.com/avelin-media/photovault/metadata"
)

const (
	tagMotionPhoto        = "MotionPhoto"
	tagContainerDirectory = "ContainerDirectory"
	tagMicroVideo         = "MicroVideo"
	tagMicroVideoOffset   = "MicroVideoOffset"
)

// DetectMotionPhotoTrailer inspects a raw tag set for an embedded video
// trailer. The container-directory form is authoritative; the legacy
// micro-video offset is only consulted when the directory yields nothing.
// A zero-length result means no trailer was found.
func DetectMotionPhotoTrailer(tags metadata.TagSet) TrailerInfo {
	if tags.Present(tagMotionPhoto) {
		if info := trailerFromDirectory(tags[tagContainerDirectory]); info.Length > 0 {
			return info
		}
	}

	if tags.Present(tagMicroVideo) {
		// the legacy format reports the trailer size as an "offset" and
		// carries no padding field
		if offset, ok := tags.Int64(tagMicroVideoOffset); ok && offset > 0 {
			return TrailerInfo{Length: offset}
		}
	}

	return TrailerInfo{}
}

// trailerFromDirectory scans container-directory entries for the one whose
// semantic label marks the motion-photo video and returns its declared
// length and padding.
func trailerFromDirectory(directory interface{}) TrailerInfo {
	entries, ok := directory.([]interface{})
	if !ok {
		return TrailerInfo{}
	}

	for _, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		item, ok := entry["Item"].(map[string]interface{})
		if !ok {
			continue
		}
		semantic, _ := item["Semantic"].(string)
		if semantic != tagMotionPhoto {
			continue
		}

		length, ok := itemNumber(item["Length"])
		if !ok || length <= 0 {
			continue
		}
		padding, ok := itemNumber(item["Padding"])
		if !ok {
			padding = 0
		}
		return TrailerInfo{Length: length, Padding: padding}
	}

	return TrailerInfo{}
}

func itemNumber(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// ReadTrailer carves the embedded video out of the still image at path. The
// trailer occupies the final info.Length+info.Padding bytes of the file with
// the video data first. The file handle is released on every exit path.
func ReadTrailer(path string, fileSize int64, info TrailerInfo) ([]byte, error) {
	if info.Length <= 0 {
		return nil, fmt.Errorf("no trailer to read from %s", path)
	}

	position := fileSize - info.Length - info.Padding
	if position < 0 {
		return nil, fmt.Errorf("trailer of %d+%d bytes does not fit in %d-byte file %s",
			info.Length, info.Padding, fileSize, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s for trailer extraction: %w", path, err)
	}
	defer file.Close()

	video := make([]byte, info.Length)
	n, err := file.ReadAt(video, position)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read %d-byte trailer at offset %d of %s: %w",
			info.Length, position, path, err)
	}
	// EOF is fine only when the full trailer was read; a short read means the
	// file shrank since it was stat'd and the buffer tail is zero fill
	if int64(n) < info.Length {
		return nil, fmt.Errorf("short trailer read from %s: got %d of %d bytes at offset %d",
			path, n, info.Length, position)
	}

	return video, nil
}
