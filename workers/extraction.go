package workers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelin-media/photovault/config"
	"github.com/avelin-media/photovault/geocode"
	"github.com/avelin-media/photovault/media"
	"github.com/avelin-media/photovault/metadata"
	"github.com/avelin-media/photovault/models"
	"github.com/avelin-media/photovault/repository"
)

// syntheticDeviceID marks assets the pipeline fabricates itself (carved
// motion-photo videos) rather than ones a client uploaded.
const syntheticDeviceID = "NONE"

// Enqueuer is the slice of the queue the orchestrator needs to schedule
// follow-up work.
type Enqueuer interface {
	Enqueue(job Job) bool
}

// Extractor drives metadata extraction for assets: reading raw tags,
// normalizing them, splitting motion photos, enriching locations, and
// persisting the results. It implements the queue's Handler.
type Extractor struct {
	assets repository.AssetRepositoryInterface
	exif   repository.ExifRepositoryInterface
	albums repository.AlbumRepositoryInterface

	reader   metadata.Reader
	store    media.Store
	hasher   media.Hasher
	enricher *geocode.Enricher
	queue    Enqueuer

	scanBatchSize int

	settingsMu sync.RWMutex
	geocoding  config.GeocodingSettings
}

// NewExtractor wires the orchestrator. The queue is passed in so the
// splitter can schedule extraction of assets it creates.
func NewExtractor(
	cfg config.Config,
	assets repository.AssetRepositoryInterface,
	exif repository.ExifRepositoryInterface,
	albums repository.AlbumRepositoryInterface,
	reader metadata.Reader,
	store media.Store,
	hasher media.Hasher,
	enricher *geocode.Enricher,
	queue Enqueuer,
) *Extractor {
	batchSize := cfg.ScanBatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Extractor{
		assets:        assets,
		exif:          exif,
		albums:        albums,
		reader:        reader,
		store:         store,
		hasher:        hasher,
		enricher:      enricher,
		queue:         queue,
		scanBatchSize: batchSize,
		geocoding:     cfg.Geocoding,
	}
}

// SetGeocodingSettings installs a new settings snapshot for subsequent jobs.
func (e *Extractor) SetGeocodingSettings(settings config.GeocodingSettings) {
	e.settingsMu.Lock()
	e.geocoding = settings
	e.settingsMu.Unlock()
}

func (e *Extractor) geocodingSettings() config.GeocodingSettings {
	e.settingsMu.RLock()
	defer e.settingsMu.RUnlock()
	return e.geocoding
}

// Handle dispatches a job to its handler.
func (e *Extractor) Handle(job Job) error {
	switch job.Kind {
	case JobQueueAll:
		return e.handleQueueAll(job.Force)
	case JobExtractMetadata:
		return e.handleExtract(job.AssetID)
	case JobLinkLivePhotos:
		return e.handleLinkLivePhotos(job.AssetID)
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

// handleQueueAll pages over the library in bounded batches and enqueues a
// per-asset extraction job for every visible asset, or only for those still
// lacking a metadata record when force is false.
func (e *Extractor) handleQueueAll(force bool) error {
	queued := 0
	afterID := ""
	for {
		var (
			ids []string
			err error
		)
		if force {
			ids, err = e.assets.ListVisibleIDs(afterID, e.scanBatchSize)
		} else {
			ids, err = e.assets.ListVisibleIDsMissingExif(afterID, e.scanBatchSize)
		}
		if err != nil {
			return fmt.Errorf("asset scan failed: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if e.queue.Enqueue(Job{Kind: JobExtractMetadata, AssetID: id}) {
				queued++
			}
		}
		afterID = ids[len(ids)-1]

		if len(ids) < e.scanBatchSize {
			break
		}
	}

	log.Printf("workers: queued metadata extraction for %d asset(s) (force=%t)", queued, force)
	return nil
}

// handleExtract runs the full extraction state machine for one asset.
func (e *Extractor) handleExtract(assetID string) error {
	asset, err := e.assets.GetByID(assetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// raced with deletion; the job is handled, not retried
		log.Printf("workers: asset %s no longer exists, skipping extraction", assetID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load asset %s: %w", assetID, err)
	}
	// hidden assets are skipped as a deletion-race guard, but assets the
	// pipeline fabricates itself (carved motion-photo videos) are born hidden
	// and still need their own metadata extracted
	if !asset.IsVisible && asset.DeviceID != syntheticDeviceID {
		log.Printf("workers: asset %s is hidden, skipping extraction", assetID)
		return nil
	}

	var fileSize int64
	if stat, statErr := os.Stat(asset.OriginalPath); statErr == nil {
		fileSize = stat.Size()
	} else {
		log.Printf("workers: could not stat %s: %v", asset.OriginalPath, statErr)
	}

	tags := e.readTags(asset.OriginalPath)
	if asset.SidecarPath != nil && *asset.SidecarPath != "" {
		// sidecar values override the primary file; sidecar failure never
		// blocks primary extraction
		tags = tags.Merge(e.readTags(*asset.SidecarPath))
	}

	record := metadata.Normalize(asset, tags, fileSize)

	e.splitMotionPhoto(asset, tags, fileSize)

	e.enricher.Enrich(e.geocodingSettings(), record)

	if err := e.exif.Upsert(record); err != nil {
		return fmt.Errorf("failed to persist metadata for asset %s: %w", assetID, err)
	}

	fileCreatedAt := asset.FileCreatedAt
	if record.DateTimeOriginal != nil {
		fileCreatedAt = *record.DateTimeOriginal
	}
	duration := metadata.DurationFromTags(tags)
	if err := e.assets.UpdateExtractionSideEffects(assetID, duration, fileCreatedAt); err != nil {
		return fmt.Errorf("failed to update asset %s after extraction: %w", assetID, err)
	}

	// a content identifier means this asset is half of a live photo uploaded
	// as separate files; schedule the pairing lookup now that the identifier
	// is persisted
	if record.LivePhotoCID != nil {
		e.queue.Enqueue(Job{Kind: JobLinkLivePhotos, AssetID: assetID})
	}

	return nil
}

// readTags invokes the metadata reader, degrading to an empty tag set on
// failure so extraction continues with whatever is known.
func (e *Extractor) readTags(path string) metadata.TagSet {
	tags, err := e.reader.Read(path)
	if err != nil {
		log.Printf("workers: tag read failed for %s: %v", path, err)
		return metadata.TagSet{}
	}
	return tags
}

// splitMotionPhoto carves an embedded video trailer out of a still image and
// links it as a hidden video asset. Every failure here is logged and
// swallowed; the still image's own extraction must complete regardless.
func (e *Extractor) splitMotionPhoto(asset *models.Asset, tags metadata.TagSet, fileSize int64) {
	if asset.Type != models.AssetTypeImage || asset.LivePhotoVideoID != nil {
		return
	}

	trailer := media.DetectMotionPhotoTrailer(tags)
	if trailer.Length == 0 {
		return
	}

	if err := e.extractVideoTrailer(asset, trailer, fileSize); err != nil {
		log.Printf("workers: motion photo split failed for asset %s (%s): %v",
			asset.ID, asset.OriginalPath, err)
	}
}

func (e *Extractor) extractVideoTrailer(asset *models.Asset, trailer media.TrailerInfo, fileSize int64) error {
	video, err := media.ReadTrailer(asset.OriginalPath, fileSize, trailer)
	if err != nil {
		return err
	}

	checksum := e.hasher.Digest(video)

	motionAsset, err := e.assets.GetByChecksum(asset.OwnerID, checksum)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		motionAsset, err = e.createMotionAsset(asset, checksum, video)
	}
	if err != nil {
		return err
	}

	if err := e.assets.SetLivePhotoVideoID(asset.ID, motionAsset.ID); err != nil {
		return err
	}
	log.Printf("workers: linked motion photo video %s to asset %s", motionAsset.ID, asset.ID)
	return nil
}

// createMotionAsset materializes the carved trailer as a hidden read-only
// video asset, writes its bytes, and schedules its own extraction. A
// concurrent job creating the same content loses the unique-checksum race
// and converges on the winner's record.
func (e *Extractor) createMotionAsset(asset *models.Asset, checksum, video []byte) (*models.Asset, error) {
	dir, err := e.store.EnsureOwnerDir(media.StorageFolderEncodedVideo, asset.OwnerID)
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(asset.OriginalPath), filepath.Ext(asset.OriginalPath))
	filename := stem + media.MotionPhotoVideoExtension

	motionAsset := &models.Asset{
		ID:             uuid.NewString(),
		OwnerID:        asset.OwnerID,
		Type:           models.AssetTypeVideo,
		OriginalPath:   filepath.Join(dir, filename),
		IsVisible:      false,
		IsReadOnly:     true,
		DeviceAssetID:  fmt.Sprintf("%s_motion", filepath.Base(asset.OriginalPath)),
		DeviceID:       syntheticDeviceID,
		Checksum:       checksum,
		FileCreatedAt:  asset.FileCreatedAt,
		FileModifiedAt: asset.FileModifiedAt,
	}

	if err := e.assets.Create(motionAsset); err != nil {
		// most likely the (owner, checksum) uniqueness constraint: another
		// job created the same video first, so reuse its record
		if existing, lookupErr := e.assets.GetByChecksum(asset.OwnerID, checksum); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}

	if _, err := e.store.Save(media.StorageFolderEncodedVideo, asset.OwnerID, filename, bytes.NewReader(video)); err != nil {
		return nil, err
	}

	e.queue.Enqueue(Job{Kind: JobExtractMetadata, AssetID: motionAsset.ID})
	log.Printf("workers: created motion photo video asset %s (%d bytes) from %s",
		motionAsset.ID, len(video), asset.OriginalPath)
	return motionAsset, nil
}

// handleLinkLivePhotos pairs an asset with its live-photo counterpart by
// shared content identifier: the still keeps the library entry, the video is
// hidden and dropped from any album it was independently added to.
func (e *Extractor) handleLinkLivePhotos(assetID string) error {
	asset, err := e.assets.GetByID(assetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("workers: asset %s no longer exists, skipping live photo linking", assetID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load asset %s: %w", assetID, err)
	}

	record, err := e.exif.GetByAssetID(assetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load metadata for asset %s: %w", assetID, err)
	}
	if record.LivePhotoCID == nil {
		return nil
	}

	counterpartType := models.AssetTypeVideo
	if asset.Type == models.AssetTypeVideo {
		counterpartType = models.AssetTypeImage
	}

	counterpart, err := e.assets.FindLivePhotoCounterpart(asset.OwnerID, *record.LivePhotoCID, counterpartType)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("counterpart lookup failed for asset %s: %w", assetID, err)
	}

	still, motionVideo := asset, counterpart
	if asset.Type == models.AssetTypeVideo {
		still, motionVideo = counterpart, asset
	}

	if err := e.assets.SetLivePhotoVideoID(still.ID, motionVideo.ID); err != nil {
		return fmt.Errorf("failed to link live photo pair %s/%s: %w", still.ID, motionVideo.ID, err)
	}
	if err := e.assets.SetVisibility(motionVideo.ID, false); err != nil {
		return fmt.Errorf("failed to hide live photo video %s: %w", motionVideo.ID, err)
	}
	if err := e.albums.RemoveAssetFromAllAlbums(motionVideo.ID); err != nil {
		return fmt.Errorf("failed to prune albums for live photo video %s: %w", motionVideo.ID, err)
	}

	log.Printf("workers: linked live photo pair: still %s, video %s", still.ID, motionVideo.ID)
	return nil
}
