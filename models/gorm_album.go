package models

import "gorm.io/gorm"

// Album represents a user-curated collection of assets in the database using
// GORM. It corresponds to the 'albums' table.
type Album struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     string         `gorm:"not null;index" json:"owner_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description *string        `gorm:"" json:"description,omitempty"` // Nullable
	CreatedAt   int64          `gorm:"not null" json:"created_at"`    // Unix timestamp
	UpdatedAt   int64          `gorm:"not null" json:"updated_at"`    // Unix timestamp
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Album) TableName() string {
	return "albums"
}

// AlbumAsset is the join row placing an asset inside an album. A live-photo
// video that gets subsumed into its still image has its rows removed.
type AlbumAsset struct {
	AlbumID uint   `gorm:"primaryKey;autoIncrement:false" json:"album_id"`
	AssetID string `gorm:"primaryKey" json:"asset_id"`
}

// TableName explicitly sets the table name for GORM.
func (AlbumAsset) TableName() string {
	return "album_assets"
}
