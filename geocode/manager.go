package geocode

import (
	"log"
	"sync"

	"github.com/avelin-media/photovault/config"
)

// QueuePauser is the slice of the job queue the lifecycle manager needs:
// a global barrier around index reloads.
type QueuePauser interface {
	Pause(queueName string)
	Resume(queueName string)
}

// SettingsChange is the explicit configuration-changed event the manager
// handles synchronously.
type SettingsChange struct {
	Settings   config.GeocodingSettings
	ClearCache bool
}

// Manager owns (re)initialization of the reverse-geocoding index. Extraction
// jobs read location data through the geocoder, so the affected queue is
// paused while the index reloads.
type Manager struct {
	geocoder  Geocoder
	queue     QueuePauser
	queueName string

	mu sync.Mutex
	// data file of the last successful initialization; nil until one succeeds
	lastCitiesFile *string
}

func NewManager(geocoder Geocoder, queue QueuePauser, queueName string) *Manager {
	return &Manager{geocoder: geocoder, queue: queue, queueName: queueName}
}

// HandleSettingsChange reacts to a configuration change. When reverse
// geocoding is disabled it does nothing at all. Reinitialization is skipped
// when the configured data file matches the last successful load; otherwise
// the queue is paused, the index reloaded, and the queue resumed. Resume is
// paired with pause on every path, success or failure.
func (m *Manager) HandleSettingsChange(change SettingsChange) {
	if !change.Settings.Enabled {
		return
	}

	if change.ClearCache {
		m.geocoder.DeleteCache()
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastCitiesFile != nil && *m.lastCitiesFile == change.Settings.CitiesFile {
		log.Printf("geocode: place-name data file unchanged, skipping reinitialization")
		return
	}

	m.queue.Pause(m.queueName)
	defer m.queue.Resume(m.queueName)

	err := m.geocoder.Init(InitOptions{
		CitiesFile:   change.Settings.CitiesFile,
		CacheMaxSize: change.Settings.CacheMaxSize,
	})
	if err != nil {
		// leave the baseline unset so the next change retries
		log.Printf("geocode: reinitialization failed: %v", err)
		return
	}

	citiesFile := change.Settings.CitiesFile
	m.lastCitiesFile = &citiesFile
	log.Printf("geocode: reinitialized with data file %q", citiesFile)
}
