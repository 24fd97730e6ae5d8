package geocode

import (
	"log"

	"github.com/avelin-media/photovault/config"
	"github.com/avelin-media/photovault/models"
)

// Enricher attaches place names to extracted metadata records.
type Enricher struct {
	geocoder Geocoder
}

func NewEnricher(geocoder Geocoder) *Enricher {
	return &Enricher{geocoder: geocoder}
}

// Enrich fills the record's city/state/country from its GPS coordinates,
// overwriting any prior values. It is a no-op unless reverse geocoding is
// enabled and both coordinates are present and non-zero. Geocoder failures
// are logged with asset context and leave the record untouched; they never
// fail the caller's extraction.
func (e *Enricher) Enrich(settings config.GeocodingSettings, record *models.Exif) {
	if !settings.Enabled {
		return
	}
	if record.Latitude == nil || record.Longitude == nil {
		return
	}
	lat, lon := *record.Latitude, *record.Longitude
	// a zero on either axis is a sentinel for "no fix", not a real coordinate
	if lat == 0 || lon == 0 {
		return
	}

	location, err := e.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		log.Printf("geocode: reverse lookup failed for asset %s at (%f, %f): %v",
			record.AssetID, lat, lon, err)
		return
	}

	record.City = &location.City
	record.State = &location.State
	record.Country = &location.Country
}
