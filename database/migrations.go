package database

// migration is a single versioned schema change.
type migration struct {
	Version uint
	Query   string
}

// allMigrations holds all schema changes in order.
var allMigrations = []migration{
	{
		Version: 1,
		Query: `
-- Speed up the moderation panel's filtered report listing and the
-- read-time target resolution join.
CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_target ON reports(report_type, target_id);
CREATE INDEX IF NOT EXISTS idx_applications_enrollment ON coordinator_applications(enrollment_no);
		`,
	},
}
