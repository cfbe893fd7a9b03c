// Package storage validates uploaded product images and writes them to a backing store.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"eshop/internal/model"

	"github.com/gabriel-vasile/mimetype"
)

// MaxGalleryImages is the most files accepted by one gallery upload.
const MaxGalleryImages = 10

// allowedTypes maps accepted declared content types to the stored file extension.
var allowedTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Upload is an image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStore persists validated uploads and returns their public URL.
type ImageStore interface {
	// Save writes the upload under name. baseURL is the scheme and host of the
	// current request and is used by stores that serve files themselves.
	Save(ctx context.Context, name string, upload *Upload, baseURL string) (string, error)
}

// Validate checks that the upload declares an accepted image type and that its
// content really is a PNG or JPEG. It returns the extension to store it under.
func Validate(upload *Upload) (string, error) {
	if upload == nil {
		return "", model.ErrNoImage
	}

	declared := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}

	ext, ok := allowedTypes[declared]
	if !ok {
		return "", model.ErrUnsupportedImage
	}

	detected := mimetype.Detect(upload.Data)
	if !detected.Is("image/png") && !detected.Is("image/jpeg") {
		return "", model.ErrUnsupportedImage
	}

	return ext, nil
}

// FileName builds the stored name: the original base name with spaces replaced
// by '-' and unsafe characters dropped, then the timestamp in milliseconds and ext.
func FileName(original, ext string, at time.Time) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Join(strings.Fields(base), "-")
	base = unsafeChars.ReplaceAllString(base, "")
	base = strings.Trim(base, ".-")
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s-%d.%s", base, at.UnixMilli(), ext)
}

// Prepare validates an upload and returns the name it should be stored under.
func Prepare(upload *Upload, at time.Time) (string, error) {
	ext, err := Validate(upload)
	if err != nil {
		return "", err
	}
	return FileName(upload.Filename, ext, at), nil
}
