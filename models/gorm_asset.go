package models

import "gorm.io/gorm"

// AssetType distinguishes still images from videos.
type AssetType string

const (
	AssetTypeImage AssetType = "IMAGE"
	AssetTypeVideo AssetType = "VIDEO"
)

// Asset represents a library asset record in the database using GORM.
// It corresponds to the 'assets' table.
type Asset struct {
	ID      string    `gorm:"primaryKey" json:"id"` // UUID
	OwnerID string    `gorm:"not null;index;uniqueIndex:idx_owner_checksum" json:"owner_id"`
	Type    AssetType `gorm:"not null" json:"type"`

	OriginalPath string  `gorm:"not null" json:"original_path"`
	SidecarPath  *string `gorm:"" json:"sidecar_path,omitempty"` // Nullable, e.g. XMP companion

	// LivePhotoVideoID points at the hidden VIDEO asset carved out of (or
	// paired with) this still image. It is only ever set on IMAGE assets.
	LivePhotoVideoID *string `gorm:"index" json:"live_photo_video_id,omitempty"` // Nullable

	IsVisible  bool `gorm:"not null;default:true" json:"is_visible"`
	IsReadOnly bool `gorm:"not null;default:false" json:"is_read_only"`

	DeviceAssetID string `gorm:"not null" json:"device_asset_id"`
	DeviceID      string `gorm:"not null" json:"device_id"`

	Checksum []byte  `gorm:"uniqueIndex:idx_owner_checksum" json:"-"`
	Duration *string `gorm:"" json:"duration,omitempty"` // Nullable, "H:MM:SS.mmm"

	FileCreatedAt  int64 `gorm:"not null" json:"file_created_at"`  // Unix timestamp
	FileModifiedAt int64 `gorm:"not null" json:"file_modified_at"` // Unix timestamp
	CreatedAt      int64 `gorm:"not null" json:"created_at"`       // Unix timestamp
	UpdatedAt      int64 `gorm:"not null" json:"updated_at"`       // Unix timestamp

	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"` // For soft deletes

	// Relationships
	Exif *Exif `gorm:"foreignKey:AssetID;references:ID" json:"exif,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Asset) TableName() string {
	return "assets"
}
