// neoboard/database/database.go
package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"neoboard/models"
	"neoboard/utils"

	_ "github.com/mattn/go-sqlite3"
)

// DatabaseService is the central struct for all database operations. Every
// operation reads and writes storage directly; the engine itself is the
// source of truth and the only synchronization point.
type DatabaseService struct {
	DB     *sql.DB
	logger *slog.Logger
}

// InitDB connects to the database and applies the base schema and any
// pending migrations.
func InitDB(dataSourceName string, logger *slog.Logger) (*DatabaseService, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to execute base schema: %w", err)
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	logger.Info("Database initialized")

	return &DatabaseService{DB: db, logger: logger}, nil
}

// runMigrations applies all un-applied migrations.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	var latestVersion uint
	err := db.QueryRow("SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&latestVersion)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("could not get db version: %w", err)
	}

	for _, m := range allMigrations {
		if m.Version <= latestVersion {
			continue
		}
		logger.Info("Applying migration", "version", m.Version)
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.Query); err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				logger.Error("Failed to rollback migration", "version", m.Version, "error", rerr)
			}
			return fmt.Errorf("failed to apply migration v%d: %w", m.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)", m.Version, utils.GetSQLTime()); err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				logger.Error("Failed to rollback migration record", "version", m.Version, "error", rerr)
			}
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration v%d: %w", m.Version, err)
		}
	}
	return nil
}

// --- Content Store: Threads ---

// CreateThread inserts a new thread and returns its id. The image path,
// if any, must already have been persisted by the upload intake.
func (ds *DatabaseService) CreateThread(board, title, content, imagePath string) (int64, error) {
	board = strings.TrimSpace(board)
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if board == "" || title == "" || content == "" {
		return 0, models.Validation("title, content, and board fields are required")
	}

	res, err := ds.DB.Exec(
		"INSERT INTO threads (board, title, content, image_path, created_at) VALUES (?, ?, ?, ?, ?)",
		board, title, content, nullable(imagePath), utils.GetSQLTime())
	if err != nil {
		return 0, models.Internal(err, "failed to create thread")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, models.Internal(err, "failed to read new thread id")
	}
	return id, nil
}

// ListThreads returns threads newest-first with a correlated reply count.
// An empty board returns every thread.
func (ds *DatabaseService) ListThreads(board string) ([]models.Thread, error) {
	query := `
		SELECT id, board, title, content, image_path, created_at,
		       (SELECT COUNT(*) FROM replies WHERE thread_id = threads.id) AS replies
		FROM threads`
	args := []any{}
	if board != "" {
		query += " WHERE board = ?"
		args = append(args, board)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := ds.DB.Query(query, args...)
	if err != nil {
		return nil, models.Internal(err, "failed to list threads")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			ds.logger.Error("Failed to close rows in ListThreads", "error", err)
		}
	}()

	threads := []models.Thread{}
	for rows.Next() {
		var t models.Thread
		var imagePath sql.NullString
		if err := rows.Scan(&t.ID, &t.Board, &t.Title, &t.Content, &imagePath, &t.CreatedAt, &t.ReplyCount); err != nil {
			ds.logger.Error("Failed to scan thread row", "error", err)
			continue
		}
		t.ImagePath = imagePath.String
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Internal(err, "row error listing threads")
	}
	return threads, nil
}

// GetThread fetches a single thread by id.
func (ds *DatabaseService) GetThread(id int64) (*models.Thread, error) {
	var t models.Thread
	var imagePath sql.NullString
	err := ds.DB.QueryRow(
		"SELECT id, board, title, content, image_path, created_at FROM threads WHERE id = ?", id).
		Scan(&t.ID, &t.Board, &t.Title, &t.Content, &imagePath, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NotFound("thread not found")
	}
	if err != nil {
		return nil, models.Internal(err, "failed to get thread %d", id)
	}
	t.ImagePath = imagePath.String
	return &t, nil
}

// DeleteThread removes a thread and all of its replies in one
// transaction. Replies are deleted first and the thread's existence is
// checked from the affected-row count afterwards; a miss rolls the whole
// cascade back so a bad id leaves zero side effects.
func (ds *DatabaseService) DeleteThread(id int64) error {
	tx, err := ds.DB.Begin()
	if err != nil {
		return models.Internal(err, "could not begin transaction")
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && rerr != sql.ErrTxDone {
			ds.logger.Error("Failed to rollback transaction in DeleteThread", "error", rerr)
		}
	}()

	if _, err := tx.Exec("DELETE FROM replies WHERE thread_id = ?", id); err != nil {
		return models.Internal(err, "failed to delete replies for thread %d", id)
	}

	res, err := tx.Exec("DELETE FROM threads WHERE id = ?", id)
	if err != nil {
		return models.Internal(err, "failed to delete thread %d", id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Internal(err, "failed to read affected rows for thread %d", id)
	}
	if affected == 0 {
		return models.NotFound("thread not found")
	}

	if err := tx.Commit(); err != nil {
		return models.Internal(err, "failed to commit thread deletion")
	}
	return nil
}

// --- Content Store: Replies ---

// CreateReply inserts a reply scoped to an existing thread. Content may
// be empty only when an image is attached.
func (ds *DatabaseService) CreateReply(threadID int64, content, imagePath string) (int64, error) {
	if strings.TrimSpace(content) == "" && imagePath == "" {
		return 0, models.Validation("content or an image is required")
	}

	// No foreign key backs this reference, so check it explicitly.
	var exists int64
	err := ds.DB.QueryRow("SELECT id FROM threads WHERE id = ?", threadID).Scan(&exists)
	if err == sql.ErrNoRows {
		return 0, models.Validation("a valid thread_id is required")
	}
	if err != nil {
		return 0, models.Internal(err, "failed to check thread %d", threadID)
	}

	res, err := ds.DB.Exec(
		"INSERT INTO replies (thread_id, content, image_path, created_at) VALUES (?, ?, ?, ?)",
		threadID, content, nullable(imagePath), utils.GetSQLTime())
	if err != nil {
		return 0, models.Internal(err, "failed to create reply")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, models.Internal(err, "failed to read new reply id")
	}
	return id, nil
}

// ListReplies returns a thread's replies oldest-first.
func (ds *DatabaseService) ListReplies(threadID int64) ([]models.Reply, error) {
	rows, err := ds.DB.Query(
		"SELECT id, thread_id, content, image_path, created_at FROM replies WHERE thread_id = ? ORDER BY created_at ASC, id ASC",
		threadID)
	if err != nil {
		return nil, models.Internal(err, "failed to list replies")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			ds.logger.Error("Failed to close rows in ListReplies", "error", err)
		}
	}()

	replies := []models.Reply{}
	for rows.Next() {
		var r models.Reply
		var content, imagePath sql.NullString
		if err := rows.Scan(&r.ID, &r.ThreadID, &content, &imagePath, &r.CreatedAt); err != nil {
			ds.logger.Error("Failed to scan reply row", "error", err)
			continue
		}
		r.Content = content.String
		r.ImagePath = imagePath.String
		replies = append(replies, r)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Internal(err, "row error listing replies")
	}
	return replies, nil
}

// DeleteReply removes a single reply.
func (ds *DatabaseService) DeleteReply(id int64) error {
	res, err := ds.DB.Exec("DELETE FROM replies WHERE id = ?", id)
	if err != nil {
		return models.Internal(err, "failed to delete reply %d", id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Internal(err, "failed to read affected rows for reply %d", id)
	}
	if affected == 0 {
		return models.NotFound("reply not found")
	}
	return nil
}

// nullable maps an empty string to a NULL column value.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
