// media/types.go
package media

// StorageFolder names a class of derived files managed by the Store.
type StorageFolder string

const (
	StorageFolderEncodedVideo StorageFolder = "encoded_video"
	StorageFolderUnknown      StorageFolder = "unknown"
)

// MotionPhotoVideoExtension is the container extension carved live-photo
// trailers are written with.
const MotionPhotoVideoExtension = ".mp4"

// TrailerInfo describes an embedded video trailer appended to a still
// image's byte stream. It only exists while the splitter runs.
type TrailerInfo struct {
	Length  int64 // byte length of the embedded video
	Padding int64 // trailing bytes after the video data
}
