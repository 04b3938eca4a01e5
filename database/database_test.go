// neoboard/database/database_test.go
package database

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"neoboard/models"
)

// setupTestDB creates a fresh on-disk SQLite database for testing.
func setupTestDB(t *testing.T) *DatabaseService {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	dir, err := os.MkdirTemp("", "neoboard_test_db")
	if err != nil {
		t.Fatalf("Failed to create temp dir for test DB: %v", err)
	}
	dbPath := filepath.Join(dir, "test.db?_journal_mode=WAL")

	ds, err := InitDB(dbPath, logger)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	t.Cleanup(func() {
		ds.DB.Close()
		os.RemoveAll(dir)
	})

	return ds
}

// assertKind fails unless err carries the given error category.
func assertKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	var reqErr *models.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Expected a RequestError of kind %s, got: %v", kind, err)
	}
	if reqErr.Kind != kind {
		t.Fatalf("Expected error kind %s, got %s (%v)", kind, reqErr.Kind, err)
	}
}

func TestMigrations(t *testing.T) {
	ds := setupTestDB(t)

	var version int
	err := ds.DB.QueryRow("SELECT version FROM schema_migrations WHERE version = 1").Scan(&version)
	if err != nil {
		t.Fatalf("Migration version 1 was not recorded: %v", err)
	}
}

func TestCreateThreadValidation(t *testing.T) {
	ds := setupTestDB(t)

	testCases := []struct {
		name                  string
		board, title, content string
	}{
		{"Missing Board", "", "Title", "Content"},
		{"Missing Title", "/b/", "", "Content"},
		{"Missing Content", "/b/", "Title", ""},
		{"Whitespace Only", "/b/", "   ", "Content"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ds.CreateThread(tc.board, tc.title, tc.content, "")
			assertKind(t, err, models.ErrValidation)
		})
	}

	var count int
	ds.DB.QueryRow("SELECT COUNT(*) FROM threads").Scan(&count)
	if count != 0 {
		t.Errorf("Expected no threads after failed validations, found %d", count)
	}
}

func TestThreadAndReplyLifecycle(t *testing.T) {
	ds := setupTestDB(t)

	threadID, err := ds.CreateThread("/g/", "Hello", "World", "")
	if err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}
	if threadID != 1 {
		t.Errorf("Expected first thread id to be 1, got %d", threadID)
	}

	replyID, err := ds.CreateReply(threadID, "hi", "")
	if err != nil {
		t.Fatalf("CreateReply failed: %v", err)
	}
	if replyID != 1 {
		t.Errorf("Expected first reply id to be 1, got %d", replyID)
	}

	threads, err := ds.ListThreads("/g/")
	if err != nil {
		t.Fatalf("ListThreads failed: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("Expected 1 thread on /g/, got %d", len(threads))
	}
	if threads[0].ReplyCount != 1 {
		t.Errorf("Expected reply_count 1, got %d", threads[0].ReplyCount)
	}

	// The board filter is exact against the stored delimited tag.
	other, err := ds.ListThreads("/b/")
	if err != nil {
		t.Fatalf("ListThreads failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("Expected no threads on /b/, got %d", len(other))
	}

	all, err := ds.ListThreads("")
	if err != nil {
		t.Fatalf("ListThreads failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 thread without board filter, got %d", len(all))
	}

	got, err := ds.GetThread(threadID)
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if got.Title != "Hello" || got.Board != "/g/" {
		t.Errorf("GetThread returned wrong row: %+v", got)
	}

	_, err = ds.GetThread(9999)
	assertKind(t, err, models.ErrNotFound)

	if err := ds.DeleteThread(threadID); err != nil {
		t.Fatalf("DeleteThread failed: %v", err)
	}
	replies, err := ds.ListReplies(threadID)
	if err != nil {
		t.Fatalf("ListReplies failed: %v", err)
	}
	if len(replies) != 0 {
		t.Errorf("Expected no replies after cascade, got %d", len(replies))
	}
}

func TestDeleteThreadCascadeAtomicity(t *testing.T) {
	ds := setupTestDB(t)

	threadID, err := ds.CreateThread("/b/", "Doomed", "Soon gone", "")
	if err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := ds.CreateReply(threadID, "reply", ""); err != nil {
			t.Fatalf("CreateReply failed: %v", err)
		}
	}

	if err := ds.DeleteThread(threadID); err != nil {
		t.Fatalf("First DeleteThread failed: %v", err)
	}

	// Idempotent failure: the second delete reports NotFound.
	err = ds.DeleteThread(threadID)
	assertKind(t, err, models.ErrNotFound)

	var replyCount int
	ds.DB.QueryRow("SELECT COUNT(*) FROM replies").Scan(&replyCount)
	if replyCount != 0 {
		t.Errorf("Expected all replies gone, found %d", replyCount)
	}
}

func TestDeleteThreadMissRollsBackReplyDeletions(t *testing.T) {
	ds := setupTestDB(t)

	// Plant replies referencing a thread id that has no thread row. The
	// schema has no foreign keys, so this is possible at the SQL level.
	// A delete against that id must leave them untouched.
	for i := 0; i < 2; i++ {
		_, err := ds.DB.Exec(
			"INSERT INTO replies (thread_id, content, created_at) VALUES (999, 'orphan', CURRENT_TIMESTAMP)")
		if err != nil {
			t.Fatalf("Failed to seed replies: %v", err)
		}
	}

	err := ds.DeleteThread(999)
	assertKind(t, err, models.ErrNotFound)

	var count int
	ds.DB.QueryRow("SELECT COUNT(*) FROM replies WHERE thread_id = 999").Scan(&count)
	if count != 2 {
		t.Errorf("Expected reply deletions to roll back, found %d of 2 rows", count)
	}
}

func TestCreateReplyRules(t *testing.T) {
	ds := setupTestDB(t)

	threadID, err := ds.CreateThread("/b/", "Thread", "Content", "")
	if err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}

	// Empty content with no image is rejected.
	_, err = ds.CreateReply(threadID, "", "")
	assertKind(t, err, models.ErrValidation)

	// Empty content is fine when an image is attached.
	if _, err := ds.CreateReply(threadID, "", "uploads/reply_x.png"); err != nil {
		t.Errorf("Expected image-only reply to succeed, got: %v", err)
	}

	// The thread reference is validated explicitly at creation time.
	_, err = ds.CreateReply(12345, "hello", "")
	assertKind(t, err, models.ErrValidation)
}

func TestDeleteReply(t *testing.T) {
	ds := setupTestDB(t)

	threadID, _ := ds.CreateThread("/b/", "Thread", "Content", "")
	replyID, _ := ds.CreateReply(threadID, "bye", "")

	if err := ds.DeleteReply(replyID); err != nil {
		t.Fatalf("DeleteReply failed: %v", err)
	}
	err := ds.DeleteReply(replyID)
	assertKind(t, err, models.ErrNotFound)
}
