package media

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store resolves logical storage folders to filesystem locations and saves
// derived files into them.
type Store interface {
	// EnsureOwnerDir makes sure the per-owner directory for a storage folder
	// exists and returns its absolute path
	EnsureOwnerDir(folder StorageFolder, ownerID string) (string, error)
	// Save stores data under the per-owner directory of a storage folder;
	// returns the absolute path written
	Save(folder StorageFolder, ownerID string, filename string, data io.Reader) (string, error)
	// Get retrieves a reader for a previously saved file
	Get(absolutePath string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes a previously saved file
	Delete(absolutePath string) error
}

// LocalStorage implements the Store interface on the local filesystem. Every
// derived file lives under basePath/<folder>/<ownerID>/.
type LocalStorage struct {
	basePath string // absolute path to MEDIA_STORAGE_PATH
}

// NewLocalStorage creates a new local filesystem store rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// EnsureOwnerDir creates the per-owner directory for the folder if needed.
func (ls *LocalStorage) EnsureOwnerDir(folder StorageFolder, ownerID string) (string, error) {
	dirPath := filepath.Join(ls.basePath, string(folder), ownerID)
	if !strings.HasPrefix(filepath.Clean(dirPath), ls.basePath) {
		return "", fmt.Errorf("folder '%s' for owner '%s' resolves outside base path", folder, ownerID)
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure directory '%s': %w", dirPath, err)
	}
	return dirPath, nil
}

// Save writes data to the per-owner directory of the folder. An interrupted
// write is removed so a partial file never survives.
func (ls *LocalStorage) Save(folder StorageFolder, ownerID string, filename string, data io.Reader) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty for LocalStorage.Save")
	}

	targetDir, err := ls.EnsureOwnerDir(folder, ownerID)
	if err != nil {
		return "", err
	}

	fullSavePath := filepath.Join(targetDir, filepath.Base(filename))

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, data); err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return "", fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}

	log.Printf("media.store: saved asset to %s", fullSavePath)
	return fullSavePath, nil
}

// Get opens a previously saved file for reading.
func (ls *LocalStorage) Get(absolutePath string) (io.ReadCloser, os.FileInfo, error) {
	if err := ls.checkPath(absolutePath); err != nil {
		return nil, nil, err
	}

	file, err := os.Open(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("asset not found at '%s': %w", absolutePath, err)
		}
		return nil, nil, fmt.Errorf("failed to open asset '%s': %w", absolutePath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset '%s': %w", absolutePath, err)
	}

	return file, info, nil
}

// Delete removes a saved file, treating an already-missing file as success.
func (ls *LocalStorage) Delete(absolutePath string) error {
	if err := ls.checkPath(absolutePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	err := os.Remove(absolutePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset '%s': %w", absolutePath, err)
	}
	if err == nil {
		log.Printf("media.store: deleted asset %s", absolutePath)
	}
	return nil
}

// checkPath rejects paths outside the storage root.
func (ls *LocalStorage) checkPath(absolutePath string) error {
	cleaned := filepath.Clean(absolutePath)
	if !strings.HasPrefix(cleaned, ls.basePath) {
		return fmt.Errorf("invalid path: access denied for '%s'", absolutePath)
	}
	return nil
}
