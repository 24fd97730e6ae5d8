package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avelin-media/photovault/config"
	"github.com/avelin-media/photovault/geocode"
	"github.com/avelin-media/photovault/workers"
)

// SettingsHandler applies runtime configuration changes. Geocoding changes
// are handed to the lifecycle manager as an explicit event rather than
// observed through shared state.
type SettingsHandler struct {
	Manager   *geocode.Manager
	Extractor *workers.Extractor
}

type geocodingSettingsRequest struct {
	Enabled      bool   `json:"enabled"`
	CitiesFile   string `json:"cities_file"`
	CacheMaxSize int    `json:"cache_max_size"`
	ClearCache   bool   `json:"clear_cache"`
}

// UpdateGeocoding installs a new geocoding settings snapshot and triggers
// the lifecycle manager synchronously.
func (h *SettingsHandler) UpdateGeocoding(w http.ResponseWriter, r *http.Request) {
	var req geocodingSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON geocoding settings object")
		return
	}

	settings := config.GeocodingSettings{
		Enabled:      req.Enabled,
		CitiesFile:   req.CitiesFile,
		CacheMaxSize: req.CacheMaxSize,
	}

	h.Extractor.SetGeocodingSettings(settings)
	h.Manager.HandleSettingsChange(geocode.SettingsChange{
		Settings:   settings,
		ClearCache: req.ClearCache,
	})

	w.WriteHeader(http.StatusNoContent)
}
