package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/avelin-media/photovault/config"
	"github.com/avelin-media/photovault/database"
	"github.com/avelin-media/photovault/geocode"
	"github.com/avelin-media/photovault/handlers"
	"github.com/avelin-media/photovault/media"
	"github.com/avelin-media/photovault/metadata"
	"github.com/avelin-media/photovault/repository"
	"github.com/avelin-media/photovault/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.EncodedVideoPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	var reader metadata.Reader
	reader, err = metadata.NewExiftoolReader()
	if err != nil {
		log.Printf("Warning: exiftool unavailable (%v); falling back to pure-Go EXIF reader", err)
		reader = metadata.NewGoexifReader()
	}
	defer reader.Close()

	assetRepo := repository.NewAssetRepository(db)
	exifRepo := repository.NewExifRepository(db)
	albumRepo := repository.NewAlbumRepository(db)

	geocoder := geocode.NewFileGeocoder(filepath.Join(cfg.MediaStoragePath, "geodata", "cities.tsv"))
	enricher := geocode.NewEnricher(geocoder)

	log.Printf("Initializing extraction worker pool (Workers: %d, Queue Size: %d)...",
		cfg.NumExtractionWorkers, cfg.ExtractionQueueSize)
	queue := workers.NewExtractionQueue(cfg.ExtractionQueueSize)
	extractor := workers.NewExtractor(cfg, assetRepo, exifRepo, albumRepo,
		reader, mediaStore, media.NewBlake3Hasher(), enricher, queue)
	queue.Start(cfg.NumExtractionWorkers, extractor)
	defer queue.Stop()

	geocodeManager := geocode.NewManager(geocoder, queue, workers.QueueMetadataExtraction)
	// treat boot as the first configuration change so the index loads before
	// any extraction job needs it
	geocodeManager.HandleSettingsChange(geocode.SettingsChange{Settings: cfg.Geocoding})

	log.Printf("Serving files from root: %s", cfg.RootDirectory)
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing carved motion photo videos in: %s", cfg.EncodedVideoPath)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	extractionHandler := &handlers.ExtractionHandler{Queue: queue}
	settingsHandler := &handlers.SettingsHandler{Manager: geocodeManager, Extractor: extractor}

	r.Route("/api", func(r chi.Router) {
		r.Post("/extraction/queue-all", extractionHandler.QueueAll)
		r.Put("/settings/geocoding", settingsHandler.UpdateGeocoding)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
