package filestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// LocalStorage stores artifacts on the local filesystem under a base path.
// Refs are relative paths within the base path.
type LocalStorage struct {
	basePath string
	tempPath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath. A temp
// subdirectory is created for in-progress artifacts swept by the cleanup job.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	tempPath := filepath.Join(basePath, "tmp")
	if err := os.MkdirAll(tempPath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create temp directory %s: %w", tempPath, err)
	}

	return &LocalStorage{basePath: basePath, tempPath: tempPath}, nil
}

// Put stores data under a generated unique filename and returns its ref.
func (ls *LocalStorage) Put(data []byte, subdir, ext string) (string, error) {
	dir := ls.basePath
	if subdir != "" {
		dir = filepath.Join(ls.basePath, subdir)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write artifact")
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	ref := name
	if subdir != "" {
		ref = filepath.ToSlash(filepath.Join(subdir, name))
	}
	return ref, nil
}

// Get reads the artifact stored under ref.
func (ls *LocalStorage) Get(ref string) ([]byte, error) {
	path, err := ls.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", ref, err)
	}
	return data, nil
}

// Delete removes the artifact stored under ref.
func (ls *LocalStorage) Delete(ref string) error {
	path, err := ls.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact %s: %w", ref, err)
	}
	return nil
}

// resolve maps a ref to a filesystem path, rejecting path traversal.
func (ls *LocalStorage) resolve(ref string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(ref))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid artifact ref %q", ref)
	}
	return filepath.Join(ls.basePath, cleaned), nil
}

// SweepTemp deletes temp artifacts older than maxAge and returns how many
// were removed. Used by the scheduled cleanup job.
func (ls *LocalStorage) SweepTemp(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(ls.tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read temp directory: %w", err)
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(ls.tempPath, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to remove temp artifact")
			continue
		}
		removed++
	}
	return removed, nil
}
