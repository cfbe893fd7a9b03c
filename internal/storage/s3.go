package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// PutObjectAPI is the subset of the S3 client used by the store.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3-backed image store.
type S3Options struct {
	Bucket string
	Region string
	Prefix string
	// PublicURL overrides the virtual-hosted bucket URL, e.g. a CDN origin.
	PublicURL string
}

// s3Store uploads images to an S3 bucket and returns their public URL.
type s3Store struct {
	client    PutObjectAPI
	bucket    string
	prefix    string
	publicURL string
	logger    zerolog.Logger
}

// NewS3Store creates an S3 image store using the default AWS credential chain.
func NewS3Store(ctx context.Context, opts S3Options, logger zerolog.Logger) (ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return NewS3StoreWithClient(s3.NewFromConfig(cfg), opts, logger), nil
}

// NewS3StoreWithClient creates an S3 image store around an existing client.
func NewS3StoreWithClient(client PutObjectAPI, opts S3Options, logger zerolog.Logger) ImageStore {
	logger = logger.With().Str("component", "s3-image-store").Logger()

	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}

	logger.Info().
		Str("bucket", opts.Bucket).
		Str("region", opts.Region).
		Str("prefix", opts.Prefix).
		Msg("S3 image store initialised")

	return &s3Store{
		client:    client,
		bucket:    opts.Bucket,
		prefix:    opts.Prefix,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// Save uploads the image. baseURL is ignored since objects are served by S3.
func (s *s3Store) Save(ctx context.Context, name string, upload *Upload, _ string) (string, error) {
	key := s.prefix + name

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(upload.Data),
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(upload.Data)).Msg("image uploaded")

	return s.publicURL + "/" + key, nil
}
