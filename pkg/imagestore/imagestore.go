// Package imagestore stores pet images in an object store and hands back
// durable public URLs. Deletion works backwards from the URL: the object key
// is derived from the URL path.
package imagestore

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store is the image storage contract consumed by the pet service.
type Store interface {
	// Upload stores data under a fresh key derived from filename and returns
	// the public URL of the stored object.
	Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error)
	// Delete removes the object behind a URL previously returned by Upload.
	Delete(ctx context.Context, imageURL string) error
}

// objectKey builds a collision-free key under the pets/ prefix, keeping the
// original file extension so content type survives round trips.
func objectKey(filename string) string {
	return "pets/" + uuid.New().String() + strings.ToLower(path.Ext(filename))
}

// keyFromURL extracts the object key from a public URL: the path relative to
// the configured base.
func keyFromURL(baseURL, imageURL string) (string, error) {
	if baseURL != "" && strings.HasPrefix(imageURL, baseURL) {
		return strings.TrimPrefix(strings.TrimPrefix(imageURL, baseURL), "/"), nil
	}
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("invalid image URL %q: %w", imageURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("image URL %q has no object key", imageURL)
	}
	return key, nil
}
