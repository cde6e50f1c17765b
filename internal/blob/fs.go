package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// fsStore implements Store on the local file system. Used when S3 is disabled.
type fsStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFSStore creates a blob store writing under the given directory.
func NewFSStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", dir, err)
	}

	return &fsStore{
		dir:    dir,
		logger: logger.With().Str("component", "fs-blob-store").Logger(),
	}, nil
}

// Store writes the bytes to a generated file and returns its path.
func (s *fsStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, uuid.NewString()+extensionFor(contentType))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write blob file")
		return "", fmt.Errorf("failed to write blob file %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Int("size", len(data)).Msg("blob file written")
	return path, nil
}

// Delete removes the file at the given path.
func (s *fsStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to remove blob file")
		return fmt.Errorf("failed to remove blob file %s: %w", path, err)
	}

	return nil
}
