// neoboard/utils/upload_test.go
package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neoboard/config"
	"neoboard/models"
)

func setupTestStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir, err := os.MkdirTemp("", "neoboard_test_uploads")
	if err != nil {
		t.Fatalf("Failed to create temp upload dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return &LocalStorage{UploadDir: dir}, dir
}

func assertErrorKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	var reqErr *models.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Expected a RequestError of kind %s, got: %v", kind, err)
	}
	if reqErr.Kind != kind {
		t.Fatalf("Expected error kind %s, got %s", kind, reqErr.Kind)
	}
}

func TestStoreImageExtensions(t *testing.T) {
	storage, dir := setupTestStorage(t)

	testCases := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"JPEG", "cat.jpg", false},
		{"Uppercase Extension", "CAT.PNG", false},
		{"WebP", "anim.webp", false},
		{"GIF", "loop.gif", false},
		{"Text File", "notes.txt", true},
		{"Executable", "payload.exe", true},
		{"No Extension", "cat", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stored, err := StoreImage(storage, "thread", Attachment{Filename: tc.filename, Data: []byte("data")})
			if tc.wantErr {
				assertErrorKind(t, err, models.ErrUnsupportedMedia)
				return
			}
			if err != nil {
				t.Fatalf("StoreImage(%s) failed: %v", tc.filename, err)
			}
			if !strings.HasPrefix(stored, "uploads/thread_") {
				t.Errorf("Expected stored path with category prefix, got %q", stored)
			}
			if _, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(stored, "uploads/"))); err != nil {
				t.Errorf("Stored file not found on disk: %v", err)
			}
		})
	}

	// Rejections never leave files behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read upload dir: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("Expected exactly the 4 accepted files on disk, found %d entries", len(entries))
	}
}

func TestStoreImageLowercasesExtension(t *testing.T) {
	storage, _ := setupTestStorage(t)

	stored, err := StoreImage(storage, "reply", Attachment{Filename: "SHOUT.JPEG", Data: []byte("x")})
	if err != nil {
		t.Fatalf("StoreImage failed: %v", err)
	}
	if !strings.HasSuffix(stored, ".jpeg") {
		t.Errorf("Expected lowercased extension in %q", stored)
	}
}

func TestStoreIDCard(t *testing.T) {
	storage, dir := setupTestStorage(t)

	stored, err := StoreIDCard(storage, "ENR001", Attachment{Filename: "card.png", Data: []byte("img")})
	if err != nil {
		t.Fatalf("StoreIDCard failed: %v", err)
	}
	if !strings.HasPrefix(stored, "uploads/id_cards/id_card_ENR001_") {
		t.Errorf("Expected id_cards path with enrollment prefix, got %q", stored)
	}
	if _, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(stored, "uploads/"))); err != nil {
		t.Errorf("Stored ID card not found on disk: %v", err)
	}

	// The subdirectory is created on demand by the storage backend.
	if _, err := os.Stat(filepath.Join(dir, config.IDCardSubdir)); err != nil {
		t.Errorf("Expected id_cards subdirectory to exist: %v", err)
	}
}

func TestStoreIDCardLimits(t *testing.T) {
	storage, _ := setupTestStorage(t)

	_, err := StoreIDCard(storage, "ENR001", Attachment{
		Filename: "huge.png",
		Data:     make([]byte, config.MaxIDCardSize+1),
	})
	assertErrorKind(t, err, models.ErrPayloadTooLarge)

	// Unlike content images, ID cards accept any extension, but require one.
	if _, err := StoreIDCard(storage, "ENR001", Attachment{Filename: "scan.pdf", Data: []byte("pdf")}); err != nil {
		t.Errorf("Expected PDF ID card to be accepted, got: %v", err)
	}
	_, err = StoreIDCard(storage, "ENR001", Attachment{Filename: "noext", Data: []byte("x")})
	assertErrorKind(t, err, models.ErrUnsupportedMedia)
}

func TestLocalStorageDeleteFile(t *testing.T) {
	storage, dir := setupTestStorage(t)

	stored, err := storage.SaveFile("thread_abc.png", []byte("x"), "image/png")
	if err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	// DeleteFile accepts the public path form with the uploads/ prefix.
	if err := storage.DeleteFile(stored); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "thread_abc.png")); !os.IsNotExist(err) {
		t.Error("Expected file to be removed from disk")
	}

	// Deleting a missing file is not an error.
	if err := storage.DeleteFile("uploads/never_existed.png"); err != nil {
		t.Errorf("Expected delete of missing file to succeed, got: %v", err)
	}
}
