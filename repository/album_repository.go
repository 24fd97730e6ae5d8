package repository

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/avelin-media/photovault/models"
)

// AlbumRepository handles database operations for Album entities
type AlbumRepository struct {
	DB *gorm.DB
}

// NewAlbumRepository creates a new instance of AlbumRepository
func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{DB: db}
}

// RemoveAssetFromAllAlbums deletes every album membership of the asset. A
// live-photo video subsumed into its still image is no longer a standalone
// library entry and must not linger in albums it was added to.
func (r *AlbumRepository) RemoveAssetFromAllAlbums(assetID string) error {
	result := r.DB.Where("asset_id = ?", assetID).Delete(&models.AlbumAsset{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove asset %s from albums: %w", assetID, result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("repository: removed asset %s from %d album(s)", assetID, result.RowsAffected)
	}
	return nil
}
