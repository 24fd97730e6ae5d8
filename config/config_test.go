package config

import (
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ROOT_DIRECTORY", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("MEDIA_STORAGE_PATH", "")
	t.Setenv("ENCODED_VIDEO_SUBDIR", "")
	t.Setenv("EXTRACTION_QUEUE_SIZE", "")
	t.Setenv("NUM_EXTRACTION_WORKERS", "")
	t.Setenv("SCAN_BATCH_SIZE", "")
	t.Setenv("REVERSE_GEOCODING_ENABLED", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.DatabasePath != "assets.db" {
		t.Errorf("unexpected default database path: %s", cfg.DatabasePath)
	}
	if cfg.ExtractionQueueSize != defaultExtractionQueueSize {
		t.Errorf("unexpected default queue size: %d", cfg.ExtractionQueueSize)
	}
	if cfg.NumExtractionWorkers != defaultNumExtractionWorkers {
		t.Errorf("unexpected default worker count: %d", cfg.NumExtractionWorkers)
	}
	if cfg.ScanBatchSize != defaultScanBatchSize {
		t.Errorf("unexpected default scan batch size: %d", cfg.ScanBatchSize)
	}
	if !cfg.Geocoding.Enabled {
		t.Error("reverse geocoding should default to enabled")
	}
	if filepath.Base(cfg.EncodedVideoPath) != DefaultEncodedVideoSubDir {
		t.Errorf("encoded video path %s does not end in default subdir", cfg.EncodedVideoPath)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROOT_DIRECTORY", dir)
	t.Setenv("MEDIA_STORAGE_PATH", filepath.Join(dir, "derived"))
	t.Setenv("ENCODED_VIDEO_SUBDIR", "clips")
	t.Setenv("EXTRACTION_QUEUE_SIZE", "7")
	t.Setenv("NUM_EXTRACTION_WORKERS", "2")
	t.Setenv("REVERSE_GEOCODING_ENABLED", "false")
	t.Setenv("REVERSE_GEOCODING_CITIES_FILE", "/data/cities.tsv")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.RootDirectory != dir {
		t.Errorf("unexpected root directory: %s", cfg.RootDirectory)
	}
	if cfg.EncodedVideoPath != filepath.Join(dir, "derived", "clips") {
		t.Errorf("unexpected encoded video path: %s", cfg.EncodedVideoPath)
	}
	if cfg.ExtractionQueueSize != 7 {
		t.Errorf("unexpected queue size: %d", cfg.ExtractionQueueSize)
	}
	if cfg.Geocoding.Enabled {
		t.Error("reverse geocoding should be disabled")
	}
	if cfg.Geocoding.CitiesFile != "/data/cities.tsv" {
		t.Errorf("unexpected cities file: %s", cfg.Geocoding.CitiesFile)
	}
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("EXTRACTION_QUEUE_SIZE", "not-a-number")
	t.Setenv("NUM_EXTRACTION_WORKERS", "-3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ExtractionQueueSize != defaultExtractionQueueSize {
		t.Errorf("invalid queue size must fall back to default, got %d", cfg.ExtractionQueueSize)
	}
	if cfg.NumExtractionWorkers != defaultNumExtractionWorkers {
		t.Errorf("non-positive worker count must fall back to default, got %d", cfg.NumExtractionWorkers)
	}
}
