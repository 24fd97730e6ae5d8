package media

import "github.com/zeebo/blake3"

// Hasher produces the deterministic content digest used for asset
// deduplication.
type Hasher interface {
	Digest(data []byte) []byte
}

// Blake3Hasher hashes with BLAKE3, which keeps checksumming cheap even for
// multi-megabyte carved trailers.
type Blake3Hasher struct{}

func NewBlake3Hasher() *Blake3Hasher {
	return &Blake3Hasher{}
}

// Digest returns the 32-byte BLAKE3 digest of data.
func (Blake3Hasher) Digest(data []byte) []byte {
	sum := blake3.Sum256(data)
	return sum[:]
}
