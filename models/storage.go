// neoboard/models/storage.go
package models

// StorageService abstracts where uploaded attachments live. Paths are
// always uploads-root-relative strings; turning them into servable URLs
// is the transport layer's concern.
type StorageService interface {
	SaveFile(relPath string, data []byte, contentType string) (string, error)
	DeleteFile(relPath string) error
}
