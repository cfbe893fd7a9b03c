package storage

import (
	"context"

	"github.com/rs/zerolog"
)

// fallbackStore tries the primary store first and writes to the secondary when it fails.
type fallbackStore struct {
	primary   ImageStore
	secondary ImageStore
	logger    zerolog.Logger
}

// NewFallbackStore creates a store that falls back to secondary on primary errors.
// If primary is nil only secondary is used.
func NewFallbackStore(primary, secondary ImageStore, logger zerolog.Logger) ImageStore {
	return &fallbackStore{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-image-store").Logger(),
	}
}

func (s *fallbackStore) Save(ctx context.Context, name string, upload *Upload, baseURL string) (string, error) {
	if s.primary != nil {
		url, err := s.primary.Save(ctx, name, upload, baseURL)
		if err == nil {
			return url, nil
		}
		if ctx.Err() != nil {
			return "", err
		}
		s.logger.Warn().
			Err(err).
			Str("file", name).
			Msg("primary image store failed, falling back to secondary")
	}

	return s.secondary.Save(ctx, name, upload, baseURL)
}
