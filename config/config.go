package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultEncodedVideoSubDir = "encoded_video"
)

const (
	defaultExtractionQueueSize  = 200
	defaultNumExtractionWorkers = 4
	defaultScanBatchSize        = 1000
)

type Config struct {
	// library root (where original user files live)
	RootDirectory string

	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for derived assets
	EncodedVideoPath string // full-calculated path for carved motion-photo videos

	// extraction worker settings
	ExtractionQueueSize  int
	NumExtractionWorkers int
	ScanBatchSize        int

	// reverse geocoding settings
	Geocoding GeocodingSettings
}

// GeocodingSettings is an immutable snapshot of the reverse-geocoding
// configuration. It is passed by value into the enricher and the lifecycle
// manager rather than read from shared mutable state.
type GeocodingSettings struct {
	Enabled      bool
	CitiesFile   string // path to the place-name data file; empty means the geocoder default
	CacheMaxSize int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	root := getEnvOrDefault("ROOT_DIRECTORY", ".")
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for root directory '%s': %w", root, err)
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "assets.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	encodedVideoSubDir := getEnvOrDefault("ENCODED_VIDEO_SUBDIR", DefaultEncodedVideoSubDir)
	absEncodedVideoPath := filepath.Join(absMediaStorage, encodedVideoSubDir)

	queueSize := getEnvIntOrDefault("EXTRACTION_QUEUE_SIZE", defaultExtractionQueueSize)
	numWorkers := getEnvIntOrDefault("NUM_EXTRACTION_WORKERS", defaultNumExtractionWorkers)
	scanBatchSize := getEnvIntOrDefault("SCAN_BATCH_SIZE", defaultScanBatchSize)

	geocoding := GeocodingSettings{
		Enabled:      getEnvBoolOrDefault("REVERSE_GEOCODING_ENABLED", true),
		CitiesFile:   getEnvOrDefault("REVERSE_GEOCODING_CITIES_FILE", ""),
		CacheMaxSize: getEnvIntOrDefault("REVERSE_GEOCODING_CACHE_SIZE", 10000),
	}

	cfg := Config{
		RootDirectory:        absRoot,
		DatabasePath:         dbPath,
		MediaStoragePath:     absMediaStorage,
		EncodedVideoPath:     absEncodedVideoPath,
		ExtractionQueueSize:  queueSize,
		NumExtractionWorkers: numWorkers,
		ScanBatchSize:        scanBatchSize,
		Geocoding:            geocoding,
	}

	return cfg, nil
}
