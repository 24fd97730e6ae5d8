package models

// Exif holds the normalized technical metadata for a single asset. There is
// at most one row per asset and an extraction run replaces it wholesale; no
// field is ever updated incrementally.
type Exif struct {
	AssetID string `gorm:"primaryKey" json:"asset_id"`

	Make      *string `gorm:"" json:"make,omitempty"`       // Nullable
	Model     *string `gorm:"" json:"model,omitempty"`      // Nullable
	LensModel *string `gorm:"" json:"lens_model,omitempty"` // Nullable

	FNumber      *float64 `gorm:"" json:"f_number,omitempty"`      // Nullable
	FocalLength  *float64 `gorm:"" json:"focal_length,omitempty"`  // Nullable, mm
	ISO          *int     `gorm:"" json:"iso,omitempty"`           // Nullable
	ExposureTime *string  `gorm:"" json:"exposure_time,omitempty"` // Nullable, e.g. "1/125"
	Orientation  *string  `gorm:"" json:"orientation,omitempty"`   // Nullable

	ExifImageWidth  *int `gorm:"" json:"exif_image_width,omitempty"`  // Nullable
	ExifImageHeight *int `gorm:"" json:"exif_image_height,omitempty"` // Nullable
	BitsPerSample   *int `gorm:"" json:"bits_per_sample,omitempty"`   // Nullable, per channel

	Latitude  *float64 `gorm:"" json:"latitude,omitempty"`  // Nullable
	Longitude *float64 `gorm:"" json:"longitude,omitempty"` // Nullable
	City      *string  `gorm:"" json:"city,omitempty"`      // Nullable, derived
	State     *string  `gorm:"" json:"state,omitempty"`     // Nullable, derived
	Country   *string  `gorm:"" json:"country,omitempty"`   // Nullable, derived

	DateTimeOriginal *int64  `gorm:"index" json:"date_time_original,omitempty"` // Nullable, Unix timestamp
	ModifyDate       *int64  `gorm:"" json:"modify_date,omitempty"`             // Nullable, Unix timestamp
	TimeZone         *string `gorm:"" json:"time_zone,omitempty"`               // Nullable

	LivePhotoCID   *string `gorm:"index" json:"live_photo_cid,omitempty"` // Nullable, shared group token
	ProjectionType *string `gorm:"" json:"projection_type,omitempty"`     // Nullable, upper-cased

	FileSizeInByte *int64 `gorm:"" json:"file_size_in_byte,omitempty"` // Nullable
}

// TableName explicitly sets the table name for GORM.
func (Exif) TableName() string {
	return "exif"
}
