// neoboard/utils/upload.go
package utils

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"neoboard/config"
	"neoboard/models"

	"github.com/google/uuid"
)

// Attachment is a received upload: the client's original filename plus
// the transferred bytes.
type Attachment struct {
	Filename string
	Data     []byte
}

// StoreImage validates a content image against the extension allow-list
// and persists it under the flat uploads root. The category becomes the
// filename prefix ("thread", "reply"). All failures happen before any
// database row referencing the path is written.
func StoreImage(storage models.StorageService, category string, att Attachment) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(att.Filename), "."))
	allowed := false
	for _, e := range config.AllowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", models.UnsupportedMedia("unsupported image format, allowed: %s",
			strings.Join(config.AllowedImageExtensions, ", "))
	}

	relPath := fmt.Sprintf("%s_%s.%s", category, uuid.New().String(), ext)
	stored, err := storage.SaveFile(relPath, att.Data, mime.TypeByExtension("."+ext))
	if err != nil {
		return "", models.StorageFailure(err, "failed to store uploaded file")
	}
	return stored, nil
}

// StoreIDCard validates an identity document and persists it under the
// id_cards subdirectory. Documents are size-capped but not restricted by
// extension beyond its presence.
func StoreIDCard(storage models.StorageService, enrollmentNo string, att Attachment) (string, error) {
	if int64(len(att.Data)) > config.MaxIDCardSize {
		return "", models.PayloadTooLarge("file size too large, maximum %dMB allowed",
			config.MaxIDCardSize/1024/1024)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(att.Filename), "."))
	if ext == "" {
		return "", models.UnsupportedMedia("uploaded file has no extension")
	}

	relPath := filepath.ToSlash(filepath.Join(config.IDCardSubdir,
		fmt.Sprintf("id_card_%s_%s.%s", enrollmentNo, uuid.New().String(), ext)))
	stored, err := storage.SaveFile(relPath, att.Data, mime.TypeByExtension("."+ext))
	if err != nil {
		return "", models.StorageFailure(err, "failed to upload ID card image")
	}
	return stored, nil
}
