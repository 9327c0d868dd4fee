// Package media uploads receipts and catalog assets to object storage.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyFile is returned when an upload has no content.
var ErrEmptyFile = errors.New("file is empty")

// Folders used for object keys.
const (
	FolderReceipts = "receipts"
	FolderCatalog  = "catalog"
)

// Resource types reported for uploaded files.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

// File is an upload in flight.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult identifies a stored object.
type UploadResult struct {
	URL          string `json:"url"`
	Identifier   string `json:"identifier"`
	ResourceType string `json:"resourceType"`
}

// Uploader stores files and returns their public location.
type Uploader interface {
	Upload(ctx context.Context, folder string, file File) (*UploadResult, error)
}

// ResourceType classifies a content type.
func ResourceType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return ResourceImage
	case strings.HasPrefix(contentType, "video/"):
		return ResourceVideo
	default:
		return ResourceRaw
	}
}

// objectKey builds "<prefix><folder>/<uuid><ext>". The client file name only
// contributes its extension.
func objectKey(prefix, folder, name string) string {
	ext := strings.ToLower(path.Ext(name))
	if len(ext) > 10 {
		ext = ""
	}
	return prefix + folder + "/" + uuid.NewString() + ext
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
