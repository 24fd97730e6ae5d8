package repository

import (
	"github.com/avelin-media/photovault/models"
)

// AssetRepositoryInterface defines the methods for asset data operations
type AssetRepositoryInterface interface {
	GetByID(id string) (*models.Asset, error)
	GetByChecksum(ownerID string, checksum []byte) (*models.Asset, error)
	Create(asset *models.Asset) error
	SetLivePhotoVideoID(assetID, videoID string) error
	SetVisibility(assetID string, visible bool) error
	UpdateExtractionSideEffects(assetID string, duration *string, fileCreatedAt int64) error
	ListVisibleIDs(afterID string, limit int) ([]string, error)
	ListVisibleIDsMissingExif(afterID string, limit int) ([]string, error)
	FindLivePhotoCounterpart(ownerID, livePhotoCID string, counterpartType models.AssetType) (*models.Asset, error)
}

// ExifRepositoryInterface defines the methods for metadata record operations
type ExifRepositoryInterface interface {
	GetByAssetID(assetID string) (*models.Exif, error)
	Upsert(record *models.Exif) error
}

// AlbumRepositoryInterface defines the methods for album data operations
type AlbumRepositoryInterface interface {
	RemoveAssetFromAllAlbums(assetID string) error
}
