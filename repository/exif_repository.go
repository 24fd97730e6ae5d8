package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avelin-media/photovault/models"
)

// ExifRepository handles database operations for metadata records
type ExifRepository struct {
	DB *gorm.DB
}

// NewExifRepository creates a new instance of ExifRepository
func NewExifRepository(db *gorm.DB) *ExifRepository {
	return &ExifRepository{DB: db}
}

// GetByAssetID retrieves the metadata record for an asset
func (r *ExifRepository) GetByAssetID(assetID string) (*models.Exif, error) {
	var record models.Exif
	err := r.DB.Where("asset_id = ?", assetID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get exif for asset %s: %w", assetID, err)
	}
	return &record, nil
}

// Upsert replaces the asset's metadata record wholesale. Extraction runs
// produce complete records, so nil fields overwrite stale values rather
// than being skipped.
func (r *ExifRepository) Upsert(record *models.Exif) error {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}},
		UpdateAll: true,
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert exif for asset %s: %w", record.AssetID, err)
	}
	return nil
}
