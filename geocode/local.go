package geocode

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
)

// place is one row of the loaded index.
type place struct {
	location Location
	lat      float64
	lon      float64
}

// FileGeocoder is a small in-memory reverse geocoder backed by a
// tab-separated place-name file (city, state, country, latitude, longitude
// per line). Lookups take the nearest place by great-circle distance and are
// memoized until the cache fills or the index is reloaded.
type FileGeocoder struct {
	defaultFile string

	mu           sync.RWMutex
	places       []place
	cache        map[string]Location
	cacheMaxSize int
}

// NewFileGeocoder creates an uninitialized geocoder whose Init falls back to
// defaultFile when no override is configured.
func NewFileGeocoder(defaultFile string) *FileGeocoder {
	return &FileGeocoder{defaultFile: defaultFile}
}

// Init loads (or reloads) the place-name index. The previous index stays
// active if loading fails.
func (g *FileGeocoder) Init(opts InitOptions) error {
	dataFile := opts.CitiesFile
	if dataFile == "" {
		dataFile = g.defaultFile
	}
	if dataFile == "" {
		return fmt.Errorf("no place-name data file configured")
	}

	loaded, err := loadPlaces(dataFile)
	if err != nil {
		return err
	}

	cacheMax := opts.CacheMaxSize
	if cacheMax <= 0 {
		cacheMax = 10000
	}

	g.mu.Lock()
	g.places = loaded
	g.cache = make(map[string]Location)
	g.cacheMaxSize = cacheMax
	g.mu.Unlock()

	log.Printf("geocode: loaded %d places from %s", len(loaded), dataFile)
	return nil
}

// DeleteCache drops all memoized lookups without touching the index.
func (g *FileGeocoder) DeleteCache() {
	g.mu.Lock()
	if g.cache != nil {
		g.cache = make(map[string]Location)
	}
	g.mu.Unlock()
	log.Printf("geocode: cache cleared")
}

// ReverseGeocode resolves the nearest known place to the coordinates.
func (g *FileGeocoder) ReverseGeocode(latitude, longitude float64) (Location, error) {
	g.mu.RLock()
	places := g.places
	g.mu.RUnlock()
	if places == nil {
		return Location{}, ErrNotInitialized
	}

	// quantize the cache key so near-identical GPS fixes share an entry
	key := fmt.Sprintf("%.3f:%.3f", latitude, longitude)

	g.mu.RLock()
	cached, ok := g.cache[key]
	g.mu.RUnlock()
	if ok {
		return cached, nil
	}

	best := -1
	bestDist := math.MaxFloat64
	for i := range places {
		d := haversine(latitude, longitude, places[i].lat, places[i].lon)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return Location{}, fmt.Errorf("place-name index is empty")
	}

	result := places[best].location

	g.mu.Lock()
	if len(g.cache) >= g.cacheMaxSize {
		g.cache = make(map[string]Location)
	}
	g.cache[key] = result
	g.mu.Unlock()

	return result, nil
}

func loadPlaces(path string) ([]place, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open place-name data file %s: %w", path, err)
	}
	defer file.Close()

	var places []place
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			log.Printf("geocode: skipping malformed line %d of %s", lineNo, path)
			continue
		}
		lat, latErr := strconv.ParseFloat(fields[3], 64)
		lon, lonErr := strconv.ParseFloat(fields[4], 64)
		if latErr != nil || lonErr != nil {
			log.Printf("geocode: skipping line %d of %s: bad coordinates", lineNo, path)
			continue
		}
		places = append(places, place{
			location: Location{City: fields[0], State: fields[1], Country: fields[2]},
			lat:      lat,
			lon:      lon,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read place-name data file %s: %w", path, err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("place-name data file %s contains no usable rows", path)
	}
	return places, nil
}

const earthRadiusKm = 6371.0

// haversine returns the great-circle distance between two points in km.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
