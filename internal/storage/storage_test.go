package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"eshop/internal/model"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		upload  *Upload
		wantExt string
		wantErr error
	}{
		{name: "png", upload: &Upload{ContentType: "image/png", Data: pngBytes}, wantExt: "png"},
		{name: "jpeg", upload: &Upload{ContentType: "image/jpeg", Data: jpegBytes}, wantExt: "jpeg"},
		{name: "jpg alias", upload: &Upload{ContentType: "image/jpg", Data: jpegBytes}, wantExt: "jpg"},
		{name: "declared with params", upload: &Upload{ContentType: "Image/PNG; charset=binary", Data: pngBytes}, wantExt: "png"},
		{name: "nil upload", upload: nil, wantErr: model.ErrNoImage},
		{name: "gif declared", upload: &Upload{ContentType: "image/gif", Data: gifBytes}, wantErr: model.ErrUnsupportedImage},
		{name: "png declared but gif content", upload: &Upload{ContentType: "image/png", Data: gifBytes}, wantErr: model.ErrUnsupportedImage},
		{name: "text declared as jpeg", upload: &Upload{ContentType: "image/jpeg", Data: []byte("hello world")}, wantErr: model.ErrUnsupportedImage},
		{name: "missing content type", upload: &Upload{Data: pngBytes}, wantErr: model.ErrUnsupportedImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := Validate(tt.upload)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, ext)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestFileName(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	tests := []struct {
		name     string
		original string
		ext      string
		expected string
	}{
		{name: "spaces become dashes", original: "my cool shoe.png", ext: "png", expected: "my-cool-shoe-1700000000123.png"},
		{name: "path components stripped", original: "../../etc/passwd.jpg", ext: "jpg", expected: "passwd-1700000000123.jpg"},
		{name: "windows path stripped", original: `C:\Users\me\photo.jpeg`, ext: "jpeg", expected: "photo-1700000000123.jpeg"},
		{name: "unsafe characters dropped", original: "sh<o>e?*.png", ext: "png", expected: "shoe-1700000000123.png"},
		{name: "empty name", original: "", ext: "png", expected: "image-1700000000123.png"},
		{name: "only unsafe characters", original: "???.png", ext: "png", expected: "image-1700000000123.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileName(tt.original, tt.ext, at))
		})
	}
}

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/public/uploads", zerolog.Nop())
	require.NoError(t, err)

	upload := &Upload{Filename: "a.png", ContentType: "image/png", Data: pngBytes}

	url, err := store.Save(context.Background(), "a-1.png", upload, "http://localhost:3000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/public/uploads/a-1.png", url)

	stored, err := os.ReadFile(filepath.Join(dir, "a-1.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	second, err := store.Save(context.Background(), "a-1.png", upload, "http://localhost:3000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/public/uploads/a-1-1.png", second)
}

func TestLocalStore_CancelledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/public/uploads/", zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, "x.png", &Upload{Data: pngBytes}, "http://h")
	assert.ErrorIs(t, err, context.Canceled)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	tests := []struct {
		name      string
		opts      S3Options
		expected  string
		putterErr error
	}{
		{
			name:     "virtual hosted url",
			opts:     S3Options{Bucket: "shop", Region: "eu-west-1", Prefix: "uploads/"},
			expected: "https://shop.s3.eu-west-1.amazonaws.com/uploads/p-1.png",
		},
		{
			name:     "custom public url",
			opts:     S3Options{Bucket: "shop", Region: "eu-west-1", Prefix: "img/", PublicURL: "https://cdn.example.com/"},
			expected: "https://cdn.example.com/img/p-1.png",
		},
		{
			name:      "put failure",
			opts:      S3Options{Bucket: "shop", Region: "eu-west-1"},
			putterErr: errors.New("access denied"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			putter := &fakePutter{err: tt.putterErr}
			store := NewS3StoreWithClient(putter, tt.opts, zerolog.Nop())

			url, err := store.Save(context.Background(), "p-1.png", &Upload{ContentType: "image/png", Data: pngBytes}, "http://ignored")

			if tt.putterErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to put object to S3")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, url)
			assert.Equal(t, "shop", *putter.input.Bucket)
			assert.Equal(t, "image/png", *putter.input.ContentType)
			assert.Equal(t, pngBytes, putter.body)
		})
	}
}

type stubStore struct {
	url   string
	err   error
	calls int
}

func (s *stubStore) Save(context.Context, string, *Upload, string) (string, error) {
	s.calls++
	return s.url, s.err
}

func TestFallbackStore(t *testing.T) {
	upload := &Upload{Data: pngBytes}

	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubStore{url: "https://s3/x.png"}
		secondary := &stubStore{url: "http://local/x.png"}

		url, err := NewFallbackStore(primary, secondary, zerolog.Nop()).Save(context.Background(), "x.png", upload, "")
		require.NoError(t, err)
		assert.Equal(t, "https://s3/x.png", url)
		assert.Equal(t, 0, secondary.calls)
	})

	t.Run("primary fails falls back", func(t *testing.T) {
		primary := &stubStore{err: errors.New("s3 down")}
		secondary := &stubStore{url: "http://local/x.png"}

		url, err := NewFallbackStore(primary, secondary, zerolog.Nop()).Save(context.Background(), "x.png", upload, "")
		require.NoError(t, err)
		assert.Equal(t, "http://local/x.png", url)
		assert.Equal(t, 1, primary.calls)
	})

	t.Run("nil primary", func(t *testing.T) {
		secondary := &stubStore{url: "http://local/x.png"}

		url, err := NewFallbackStore(nil, secondary, zerolog.Nop()).Save(context.Background(), "x.png", upload, "")
		require.NoError(t, err)
		assert.Equal(t, "http://local/x.png", url)
	})
}
