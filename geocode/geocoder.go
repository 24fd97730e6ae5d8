package geocode

import "errors"

// Location is the place-name triple a reverse lookup resolves to.
type Location struct {
	City    string
	State   string
	Country string
}

// InitOptions configures a geocoder (re)initialization.
type InitOptions struct {
	CitiesFile   string // data-file override; empty keeps the geocoder's default
	CacheMaxSize int
}

// ErrNotInitialized is returned by ReverseGeocode before a successful Init.
var ErrNotInitialized = errors.New("geocoder index not initialized")

// Geocoder maps a coordinate pair to place names. Implementations are lazily
// (re)initializable so the place-name index can be swapped at runtime.
type Geocoder interface {
	Init(opts InitOptions) error
	ReverseGeocode(latitude, longitude float64) (Location, error)
	DeleteCache()
}
