package filestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yigit/learnsphere/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
}

// NewLocalStorage creates a new LocalStorage rooted at basePath, creating it if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		return nil, errors.New("local storage path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// Save writes data to basePath/name. Only the base name is used so callers cannot escape the root.
func (ls *LocalStorage) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	filename, err := safeName(name)
	if err != nil {
		return "", err
	}

	dstPath := filepath.Join(ls.basePath, filename)
	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		// Attempt to remove the partially written file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	logger.Info().Str("path", dstPath).Int("size", len(data)).Msg("File saved successfully")
	return dstPath, nil
}

func safeName(name string) (string, error) {
	filename := filepath.Base(name)
	if filename == "" || filename == "." || filename == "/" || filename == ".." {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return filename, nil
}
