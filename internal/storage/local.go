package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// localStore writes images to a directory that the router serves as static files.
type localStore struct {
	dir        string
	publicPath string
	logger     zerolog.Logger
}

// NewLocalStore creates a store rooted at dir whose files are served under publicPath.
func NewLocalStore(dir, publicPath string, logger zerolog.Logger) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	if !strings.HasSuffix(publicPath, "/") {
		publicPath += "/"
	}

	logger = logger.With().Str("component", "local-image-store").Logger()
	logger.Info().Str("dir", dir).Str("public_path", publicPath).Msg("local image store initialised")

	return &localStore{
		dir:        dir,
		publicPath: publicPath,
		logger:     logger,
	}, nil
}

// Save writes the upload and returns baseURL + publicPath + stored name. An
// existing file with the same name is never overwritten; a numeric suffix is added.
func (s *localStore) Save(ctx context.Context, name string, upload *Upload, baseURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for attempt := 1; ; attempt++ {
		f, err := os.OpenFile(filepath.Join(s.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) && attempt < 100 {
			candidate = stem + "-" + strconv.Itoa(attempt) + ext
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Str("file", candidate).Msg("failed to create image file")
			return "", fmt.Errorf("failed to create image file %s: %w", candidate, err)
		}

		if _, err := f.Write(upload.Data); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			s.logger.Error().Err(err).Str("file", candidate).Msg("failed to write image file")
			return "", fmt.Errorf("failed to write image file %s: %w", candidate, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to close image file %s: %w", candidate, err)
		}
		break
	}

	s.logger.Debug().Str("file", candidate).Int("bytes", len(upload.Data)).Msg("image stored")

	return strings.TrimRight(baseURL, "/") + s.publicPath + candidate, nil
}
