// neoboard/database/applications.go
package database

import (
	"neoboard/models"
	"neoboard/utils"
)

// EnrollmentTaken reports whether an application already holds the given
// enrollment number. Uniqueness is enforced here, proactively, because
// the schema declares no unique constraint.
func (ds *DatabaseService) EnrollmentTaken(enrollmentNo string) (bool, error) {
	var count int
	err := ds.DB.QueryRow(
		"SELECT COUNT(*) FROM coordinator_applications WHERE enrollment_no = ?", enrollmentNo).Scan(&count)
	if err != nil {
		return false, models.Internal(err, "failed to check enrollment number")
	}
	return count > 0, nil
}

// InsertApplication persists a submission whose identity document has
// already been stored. The caller owns cleanup of the stored file if the
// insert fails.
func (ds *DatabaseService) InsertApplication(in models.ApplicationInput, idCardPath string) (int64, error) {
	now := utils.GetSQLTime()
	res, err := ds.DB.Exec(`
		INSERT INTO coordinator_applications (name, enrollment_no, division, department, id_card_path, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.EnrollmentNo, in.Division, in.Department, idCardPath,
		string(models.ApplicationPending), now, now)
	if err != nil {
		return 0, models.Internal(err, "failed to submit application")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, models.Internal(err, "failed to read new application id")
	}
	return id, nil
}

// ListApplications returns applications newest-first. The search term
// matches name, enrollment number, department, or division as a
// case-insensitive substring. A separate count query runs only when the
// listing is paginated; otherwise the total is the returned count.
func (ds *DatabaseService) ListApplications(filter models.ApplicationFilter) ([]models.CoordinatorApplication, int, error) {
	where := ""
	args := []any{}
	if filter.Status != nil {
		where = " WHERE status = ?"
		args = append(args, string(*filter.Status))
	}
	if filter.Search != "" {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += "(name LIKE ? OR enrollment_no LIKE ? OR department LIKE ? OR division LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term, term)
	}

	query := `
		SELECT id, name, enrollment_no, division, department, id_card_path, status, created_at, updated_at
		FROM coordinator_applications` + where + " ORDER BY created_at DESC, id DESC"
	queryArgs := args
	if filter.Limit != nil {
		query += " LIMIT ? OFFSET ?"
		queryArgs = append(append([]any{}, args...), *filter.Limit, filter.Offset)
	}

	rows, err := ds.DB.Query(query, queryArgs...)
	if err != nil {
		return nil, 0, models.Internal(err, "failed to list applications")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			ds.logger.Error("Failed to close rows in ListApplications", "error", err)
		}
	}()

	apps := []models.CoordinatorApplication{}
	for rows.Next() {
		var a models.CoordinatorApplication
		if err := rows.Scan(&a.ID, &a.Name, &a.EnrollmentNo, &a.Division, &a.Department,
			&a.IDCardPath, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			ds.logger.Error("Failed to scan application row", "error", err)
			continue
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, models.Internal(err, "row error listing applications")
	}

	total := len(apps)
	if filter.Limit != nil {
		countQuery := "SELECT COUNT(*) FROM coordinator_applications" + where
		if err := ds.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
			return nil, 0, models.Internal(err, "failed to count applications")
		}
	}
	return apps, total, nil
}

// UpdateApplicationStatus sets an application's status and stamps
// updated_at. Any transition between the three statuses is legal,
// including back to pending.
func (ds *DatabaseService) UpdateApplicationStatus(id int64, status models.ApplicationStatus) error {
	res, err := ds.DB.Exec(
		"UPDATE coordinator_applications SET status = ?, updated_at = ? WHERE id = ?",
		string(status), utils.GetSQLTime(), id)
	if err != nil {
		return models.Internal(err, "failed to update application %d", id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Internal(err, "failed to read affected rows for application %d", id)
	}
	if affected == 0 {
		return models.NotFound("application not found")
	}
	return nil
}
