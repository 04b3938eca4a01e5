// neoboard/database/reports.go
package database

import (
	"database/sql"
	"strings"

	"neoboard/models"
	"neoboard/utils"
)

// CreateReport files a report against a thread or reply. The target is
// deliberately not checked for existence: content may be deleted after
// the report is filed and resolution happens at read time.
func (ds *DatabaseService) CreateReport(target models.ReportTarget, reason, description string) (int64, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return 0, models.Validation("a reason for the report is required")
	}

	res, err := ds.DB.Exec(
		"INSERT INTO reports (report_type, target_id, reason, description, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		string(target.Kind), target.ID, reason, nullable(description), string(models.ReportPending), utils.GetSQLTime())
	if err != nil {
		return 0, models.Internal(err, "failed to create report")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, models.Internal(err, "failed to read new report id")
	}
	return id, nil
}

// ListReports returns reports newest-first, each with its polymorphic
// target resolved against whichever content table matches right now.
// status is "all" or one of the report statuses.
func (ds *DatabaseService) ListReports(status string) ([]models.ReportView, error) {
	query := `
		SELECT r.id, r.report_type, r.target_id, r.reason, r.description, r.status, r.created_at,
		       t.title, t.image_path, rp.content, rp.image_path
		FROM reports r
		LEFT JOIN threads t ON r.report_type = 'thread' AND t.id = r.target_id
		LEFT JOIN replies rp ON r.report_type = 'reply' AND rp.id = r.target_id`
	args := []any{}
	switch models.ReportStatus(status) {
	case models.ReportPending, models.ReportReviewed, models.ReportDismissed:
		query += " WHERE r.status = ?"
		args = append(args, status)
	default:
		if status != "" && status != "all" {
			return nil, models.Validation("invalid status filter")
		}
	}
	query += " ORDER BY r.created_at DESC, r.id DESC"

	rows, err := ds.DB.Query(query, args...)
	if err != nil {
		return nil, models.Internal(err, "failed to list reports")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			ds.logger.Error("Failed to close rows in ListReports", "error", err)
		}
	}()

	views := []models.ReportView{}
	for rows.Next() {
		var v models.ReportView
		var kind string
		var description, threadTitle, threadImage, replyContent, replyImage sql.NullString
		if err := rows.Scan(&v.ID, &kind, &v.TargetID, &v.Reason, &description, &v.Status, &v.CreatedAt,
			&threadTitle, &threadImage, &replyContent, &replyImage); err != nil {
			ds.logger.Error("Failed to scan report row", "error", err)
			continue
		}
		v.ReportType = models.TargetKind(kind)
		v.Target = models.ReportTarget{Kind: v.ReportType, ID: v.TargetID}
		v.Description = description.String

		// Point-in-time resolution: a target deleted since the report was
		// filed resolves to the tombstone, never to an error.
		switch v.ReportType {
		case models.TargetThread:
			if threadTitle.Valid {
				v.ReportedContent = threadTitle.String
				if threadImage.Valid {
					v.ReportedImagePath = &threadImage.String
				}
			} else {
				v.ReportedContent = models.TombstoneThread
			}
		case models.TargetReply:
			if replyContent.Valid {
				v.ReportedContent = replyContent.String
				if replyImage.Valid {
					v.ReportedImagePath = &replyImage.String
				}
			} else {
				v.ReportedContent = models.TombstoneReply
			}
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Internal(err, "row error listing reports")
	}
	return views, nil
}

// UpdateReportStatus moves a pending report to a terminal status. A
// zero-row update is reported as NotFound; callers cannot distinguish a
// missing report from one already at the requested status.
func (ds *DatabaseService) UpdateReportStatus(id int64, status models.ReportStatus) error {
	res, err := ds.DB.Exec("UPDATE reports SET status = ? WHERE id = ? AND status != ?",
		string(status), id, string(status))
	if err != nil {
		return models.Internal(err, "failed to update report %d", id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Internal(err, "failed to read affected rows for report %d", id)
	}
	if affected == 0 {
		return models.NotFound("report not found or status is already set")
	}
	return nil
}

// DeleteReport is the administrative cleanup path; resolved reports are
// otherwise kept indefinitely.
func (ds *DatabaseService) DeleteReport(id int64) error {
	res, err := ds.DB.Exec("DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return models.Internal(err, "failed to delete report %d", id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Internal(err, "failed to read affected rows for report %d", id)
	}
	if affected == 0 {
		return models.NotFound("report not found")
	}
	return nil
}
