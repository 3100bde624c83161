package dataset

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"goeda/domain/core"
	"goeda/domain/eda"
	"goeda/domain/table"
	apperrors "goeda/internal/errors"
)

// StorageConfig holds configuration for file storage
type StorageConfig struct {
	BasePath    string // Directory holding every dataset file
	MaxFileSize int64  // Maximum upload size in bytes
	ChunkSize   int    // Chunk size for streaming copies
}

// DefaultStorageConfig returns sensible defaults
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		BasePath:    "dataset",
		MaxFileSize: 100 * 1024 * 1024,
		ChunkSize:   1024 * 1024,
	}
}

// LocalFileStorage keeps dataset files in a single local directory
type LocalFileStorage struct {
	config *StorageConfig
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(config *StorageConfig) *LocalFileStorage {
	if config == nil {
		config = DefaultStorageConfig()
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1024 * 1024
	}
	return &LocalFileStorage{config: config}
}

// NewLocalFileStorageWithPath creates a new local file storage with a simple path
func NewLocalFileStorageWithPath(basePath string) *LocalFileStorage {
	config := DefaultStorageConfig()
	config.BasePath = basePath
	return NewLocalFileStorage(config)
}

// BasePath returns the dataset directory
func (s *LocalFileStorage) BasePath() string {
	return s.config.BasePath
}

// MaxFileSize returns the upload cap in bytes
func (s *LocalFileStorage) MaxFileSize() int64 {
	return s.config.MaxFileSize
}

// Store saves an upload under a unique name and returns that name
func (s *LocalFileStorage) Store(ctx context.Context, src io.Reader, filename string) (string, error) {
	original := filepath.Base(filename)
	if _, ok := table.FormatForPath(original); !ok {
		return "", apperrors.UnsupportedFormat(filepath.Ext(original))
	}

	if err := os.MkdirAll(s.config.BasePath, 0755); err != nil {
		return "", apperrors.Wrap(err, "failed to create storage directory")
	}

	uniqueName := core.UploadName(original)
	filePath := filepath.Join(s.config.BasePath, uniqueName)

	destFile, err := os.Create(filePath)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create destination file")
	}
	defer destFile.Close()

	limited := src
	if s.config.MaxFileSize > 0 {
		limited = io.LimitReader(src, s.config.MaxFileSize+1)
	}

	buf := make([]byte, s.config.ChunkSize)
	written, err := io.CopyBuffer(destFile, limited, buf)
	if err != nil {
		os.Remove(filePath)
		return "", apperrors.Wrap(err, "failed to copy file contents")
	}
	if s.config.MaxFileSize > 0 && written > s.config.MaxFileSize {
		os.Remove(filePath)
		return "", apperrors.FileTooLarge(s.config.MaxFileSize, nil)
	}

	log.Printf("[Storage] stored %s as %s (%d bytes)", original, uniqueName, written)
	return uniqueName, nil
}

// Path resolves a dataset name inside the storage directory, rejecting anything that would escape it
func (s *LocalFileStorage) Path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || filepath.Base(filename) != filename ||
		strings.ContainsAny(filename, `/\`) {
		return "", apperrors.InvalidInput(fmt.Sprintf("invalid dataset name: %q", filename))
	}
	return filepath.Join(s.config.BasePath, filename), nil
}

// Exists checks if a dataset file exists in storage
func (s *LocalFileStorage) Exists(ctx context.Context, filename string) (bool, error) {
	path, err := s.Path(filename)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check file existence")
	}
	return !info.IsDir(), nil
}

// GetFileSize returns the size of a stored file
func (s *LocalFileStorage) GetFileSize(filename string) (int64, error) {
	path, err := s.Path(filename)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, apperrors.TableNotFound(filename)
	}
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get file info")
	}
	return info.Size(), nil
}

// Delete removes a dataset file from storage
func (s *LocalFileStorage) Delete(ctx context.Context, filename string) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return apperrors.TableNotFound(filename)
		}
		return apperrors.Wrap(err, "failed to delete file")
	}
	log.Printf("[Storage] deleted %s", filename)
	return nil
}

// List returns every supported dataset file in the directory, newest first
func (s *LocalFileStorage) List(ctx context.Context) ([]*eda.DatasetRecord, error) {
	entries, err := os.ReadDir(s.config.BasePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list storage directory")
	}

	var records []*eda.DatasetRecord
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		format, ok := table.FormatForPath(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, &eda.DatasetRecord{
			Filename:   entry.Name(),
			Format:     format,
			SizeBytes:  info.Size(),
			UploadedAt: info.ModTime().UTC().Truncate(time.Second),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].UploadedAt.Equal(records[j].UploadedAt) {
			return records[i].UploadedAt.After(records[j].UploadedAt)
		}
		return records[i].Filename < records[j].Filename
	})
	return records, nil
}
