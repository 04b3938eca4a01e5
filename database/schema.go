package database

// The content tables deliberately declare no foreign keys, mirroring the
// production schema: thread/reply linkage and report targets are logical
// references validated by the service layer at write time.
const schema = `
CREATE TABLE IF NOT EXISTS threads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	board TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	image_path TEXT,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS replies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	thread_id INTEGER NOT NULL,
	content TEXT,
	image_path TEXT,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	report_type TEXT NOT NULL, -- 'thread' or 'reply'
	target_id INTEGER NOT NULL,
	reason TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS coordinator_applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	enrollment_no TEXT NOT NULL,
	division TEXT NOT NULL,
	department TEXT NOT NULL,
	id_card_path TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME NOT NULL
);

-- --- INDEXES ---
CREATE INDEX IF NOT EXISTS idx_threads_board_created ON threads(board, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_replies_thread ON replies(thread_id);
`
