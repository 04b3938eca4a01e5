// neoboard/handlers/moderation.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"neoboard/config"
	"neoboard/models"
	"neoboard/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// HandleCreateReport files a report against a thread or reply. The target
// is not checked for existence; stale reports resolve to a tombstone at
// read time.
func HandleCreateReport(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleCreateReport")

	targetID, err := strconv.ParseInt(r.FormValue("target_id"), 10, 64)
	if err != nil {
		respondError(w, app, logger, models.Validation("a valid target ID is required"))
		return
	}
	target, err := models.ParseReportTarget(r.FormValue("type"), targetID)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	reason := strings.TrimSpace(r.FormValue("reason"))
	description := strings.TrimSpace(r.FormValue("description"))

	reportID, err := app.DB().CreateReport(target, reason, description)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	logger.Info("New report filed", "report_id", reportID, "type", target.Kind, "target_id", target.ID)
	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "report_id": reportID}, app)
}

// HandleListReports lists reports with their targets resolved, newest
// first. An unknown or absent status filter returns everything.
func HandleListReports(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleListReports")

	status := r.URL.Query().Get("status")
	if status == "" {
		status = "all"
	}
	reports, err := app.DB().ListReports(status)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	respondJSON(w, http.StatusOK, reports, app)
}

// HandleUpdateReportStatus resolves a report to reviewed or dismissed.
// There is no way back to pending.
func HandleUpdateReportStatus(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleUpdateReportStatus")
	id, err := pathID(r, "reportID")
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	status, err := models.ParseReportStatus(r.FormValue("status"))
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	if err := app.DB().UpdateReportStatus(id, status); err != nil {
		respondError(w, app, logger, err)
		return
	}
	logger.Info("Report resolved", "report_id", id, "status", status)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true}, app)
}

// HandleDeleteReport permanently removes a report (administrative cleanup).
func HandleDeleteReport(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleDeleteReport")
	id, err := pathID(r, "reportID")
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	if err := app.DB().DeleteReport(id); err != nil {
		respondError(w, app, logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true}, app)
}

// applicationInputError translates a validator failure into the
// user-facing message for the offending field.
func applicationInputError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.Validation("all fields are required")
	}
	fe := verrs[0]
	switch {
	case fe.Tag() == "required":
		return models.Validation("all fields are required")
	case fe.Field() == "Name":
		return models.Validation("name must be at least 2 characters long")
	case fe.Field() == "EnrollmentNo":
		return models.Validation("enrollment number must be at least 3 characters long")
	}
	return models.Validation("invalid %s", fe.Field())
}

// HandleSubmitApplication accepts a coordinator application. No row is
// ever created without a stored identity document, and a row-insert
// failure deletes the document again.
func HandleSubmitApplication(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleSubmitApplication")

	if err := r.ParseMultipartForm(config.MaxFormMemory); err != nil {
		respondError(w, app, logger, models.Validation("form parsing error: %v", err))
		return
	}
	input := models.ApplicationInput{
		Name:         strings.TrimSpace(r.FormValue("name")),
		EnrollmentNo: strings.TrimSpace(r.FormValue("enrollment_no")),
		Division:     strings.TrimSpace(r.FormValue("division")),
		Department:   strings.TrimSpace(r.FormValue("department")),
	}
	if err := validate.Struct(input); err != nil {
		respondError(w, app, logger, applicationInputError(err))
		return
	}

	taken, err := app.DB().EnrollmentTaken(input.EnrollmentNo)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	if taken {
		respondError(w, app, logger, models.Duplicate("enrollment number already registered"))
		return
	}

	att, err := formAttachment(r, "id_card", app)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	if att == nil {
		respondError(w, app, logger, models.Validation("ID card image is required"))
		return
	}

	idCardPath, err := utils.StoreIDCard(app.Storage(), input.EnrollmentNo, *att)
	if err != nil {
		logger.Warn("ID card upload rejected", "filename", att.Filename, "error", err)
		respondError(w, app, logger, err)
		return
	}

	appID, err := app.DB().InsertApplication(input, idCardPath)
	if err != nil {
		cleanupAttachment(app, idCardPath)
		respondError(w, app, logger, err)
		return
	}

	logger.Info("New coordinator application", "application_id", appID, "enrollment_no", input.EnrollmentNo)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Co-ordinator application submitted successfully!",
		"application_id": appID,
		"data": map[string]interface{}{
			"id":            appID,
			"name":          input.Name,
			"enrollment_no": input.EnrollmentNo,
			"division":      input.Division,
			"department":    input.Department,
			"status":        models.ApplicationPending,
		},
	}, app)
}

// HandleListApplications lists applications with optional status filter,
// substring search, and pagination.
func HandleListApplications(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleListApplications")
	q := r.URL.Query()

	filter := models.ApplicationFilter{Search: strings.TrimSpace(q.Get("search"))}
	if s := q.Get("status"); s != "" {
		status, err := models.ParseApplicationStatus(s)
		if err != nil {
			respondError(w, app, logger, err)
			return
		}
		filter.Status = &status
	}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit <= 0 {
			respondError(w, app, logger, models.Validation("a valid limit is required"))
			return
		}
		filter.Limit = &limit
	}
	if o := q.Get("offset"); o != "" {
		offset, err := strconv.Atoi(o)
		if err != nil || offset < 0 {
			respondError(w, app, logger, models.Validation("a valid offset is required"))
			return
		}
		filter.Offset = offset
	}

	apps, total, err := app.DB().ListApplications(filter)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    apps,
		"total":   total,
		"count":   len(apps),
	}, app)
}

// HandleUpdateApplicationStatus sets an application's status. Unlike
// reports, any transition among the three statuses is legal.
func HandleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request, app App) {
	logger := app.Logger().With("handler", "HandleUpdateApplicationStatus")
	id, err := pathID(r, "appID")
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, app, logger, models.Validation("application ID and status are required"))
		return
	}
	status, err := models.ParseApplicationStatus(body.Status)
	if err != nil {
		respondError(w, app, logger, err)
		return
	}

	if err := app.DB().UpdateApplicationStatus(id, status); err != nil {
		respondError(w, app, logger, err)
		return
	}
	logger.Info("Application status updated", "application_id", id, "status", status)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Status updated successfully",
	}, app)
}
