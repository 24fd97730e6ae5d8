package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/avelin-media/photovault/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// AssetRepository handles database operations for Asset entities
type AssetRepository struct {
	DB *gorm.DB
}

// NewAssetRepository creates a new instance of AssetRepository
func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{DB: db}
}

// GetByID retrieves a full asset record by its id
func (r *AssetRepository) GetByID(id string) (*models.Asset, error) {
	var asset models.Asset
	err := r.DB.Where("id = ?", id).First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	return &asset, nil
}

// GetByChecksum finds an owner's asset carrying the given content digest
func (r *AssetRepository) GetByChecksum(ownerID string, checksum []byte) (*models.Asset, error) {
	var asset models.Asset
	err := r.DB.Where("owner_id = ? AND checksum = ?", ownerID, checksum).First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get asset by checksum for owner %s: %w", ownerID, err)
	}
	return &asset, nil
}

// Create inserts a new asset record. A duplicate (owner_id, checksum) pair
// violates the unique index; callers should re-fetch by checksum on error.
func (r *AssetRepository) Create(asset *models.Asset) error {
	now := time.Now().Unix()
	if asset.CreatedAt == 0 {
		asset.CreatedAt = now
	}
	asset.UpdatedAt = now

	if err := r.DB.Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset %s: %w", asset.ID, err)
	}
	return nil
}

// SetLivePhotoVideoID links a still image to its paired video asset
func (r *AssetRepository) SetLivePhotoVideoID(assetID, videoID string) error {
	updates := map[string]interface{}{
		"live_photo_video_id": videoID,
		"updated_at":          time.Now().Unix(),
	}
	result := r.DB.Model(&models.Asset{}).Where("id = ?", assetID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set live photo video for asset %s: %w", assetID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetVisibility marks an asset visible or hidden in the library
func (r *AssetRepository) SetVisibility(assetID string, visible bool) error {
	updates := map[string]interface{}{
		"is_visible": visible,
		"updated_at": time.Now().Unix(),
	}
	result := r.DB.Model(&models.Asset{}).Where("id = ?", assetID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set visibility for asset %s: %w", assetID, result.Error)
	}
	return nil
}

// UpdateExtractionSideEffects writes the asset-level fields an extraction
// run derives: playback duration and the capture-time file creation stamp
func (r *AssetRepository) UpdateExtractionSideEffects(assetID string, duration *string, fileCreatedAt int64) error {
	updates := map[string]interface{}{
		"duration":        duration,
		"file_created_at": fileCreatedAt,
		"updated_at":      time.Now().Unix(),
	}
	result := r.DB.Model(&models.Asset{}).Where("id = ?", assetID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update extraction side effects for asset %s: %w", assetID, result.Error)
	}
	return nil
}

// ListVisibleIDs returns up to limit visible asset ids ordered by id,
// starting strictly after afterID. Keyset pagination keeps the bulk scan
// bounded regardless of library size.
func (r *AssetRepository) ListVisibleIDs(afterID string, limit int) ([]string, error) {
	query := psql.Select("id").
		From("assets").
		Where(sq.Eq{"deleted_at": nil}).
		Where(sq.Eq{"is_visible": true}).
		Where(sq.Gt{"id": afterID}).
		OrderBy("id ASC").
		Limit(uint64(limit))

	return r.scanIDs(query)
}

// ListVisibleIDsMissingExif returns up to limit visible asset ids that have
// no metadata record yet, ordered by id starting strictly after afterID.
func (r *AssetRepository) ListVisibleIDsMissingExif(afterID string, limit int) ([]string, error) {
	query := psql.Select("assets.id").
		From("assets").
		LeftJoin("exif ON exif.asset_id = assets.id").
		Where(sq.Eq{"assets.deleted_at": nil}).
		Where(sq.Eq{"assets.is_visible": true}).
		Where(sq.Eq{"exif.asset_id": nil}).
		Where(sq.Gt{"assets.id": afterID}).
		OrderBy("assets.id ASC").
		Limit(uint64(limit))

	return r.scanIDs(query)
}

func (r *AssetRepository) scanIDs(query sq.SelectBuilder) ([]string, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build asset scan query: %w", err)
	}

	var ids []string
	if err := r.DB.Raw(sqlStr, args...).Scan(&ids).Error; err != nil {
		return nil, fmt.Errorf("failed to scan asset ids: %w", err)
	}
	return ids, nil
}

// FindLivePhotoCounterpart searches for the opposite-type half of a live
// photo: an asset of counterpartType owned by ownerID whose metadata record
// carries the same content identifier
func (r *AssetRepository) FindLivePhotoCounterpart(ownerID, livePhotoCID string, counterpartType models.AssetType) (*models.Asset, error) {
	var asset models.Asset
	err := r.DB.
		Joins("JOIN exif ON exif.asset_id = assets.id").
		Where("assets.owner_id = ? AND assets.type = ? AND exif.live_photo_cid = ?",
			ownerID, counterpartType, livePhotoCID).
		First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find live photo counterpart for owner %s cid %s: %w",
			ownerID, livePhotoCID, err)
	}
	return &asset, nil
}
