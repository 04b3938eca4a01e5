// neoboard/models/models.go
package models

import (
	"time"
)

// --- Core Data Models ---

// Thread is a top-level post opening a discussion on a board.
// Board tags are stored with surrounding delimiters, e.g. "/b/".
type Thread struct {
	ID         int64     `json:"id"`
	Board      string    `json:"board"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImagePath  string    `json:"image_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ReplyCount int       `json:"replies"`
}

// Reply belongs to exactly one thread. The thread linkage is a logical
// reference checked at creation time; the schema declares no foreign key.
type Reply struct {
	ID        int64     `json:"id"`
	ThreadID  int64     `json:"thread_id"`
	Content   string    `json:"content"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Report Workflow ---

// TargetKind discriminates what a report's target id refers to.
type TargetKind string

const (
	TargetThread TargetKind = "thread"
	TargetReply  TargetKind = "reply"
)

// ReportTarget is the tagged form of a report's polymorphic target,
// resolved once at the request edge instead of carried as a loose
// (string, int) pair through the core.
type ReportTarget struct {
	Kind TargetKind
	ID   int64
}

// ParseReportTarget validates a raw (type, id) pair from a request.
func ParseReportTarget(kind string, id int64) (ReportTarget, error) {
	switch TargetKind(kind) {
	case TargetThread, TargetReply:
	default:
		return ReportTarget{}, Validation("invalid or missing report type, must be 'thread' or 'reply'")
	}
	if id <= 0 {
		return ReportTarget{}, Validation("a valid target ID is required")
	}
	return ReportTarget{Kind: TargetKind(kind), ID: id}, nil
}

// ReportStatus transitions exactly once from pending to a terminal state;
// there is no path back to pending.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewed  ReportStatus = "reviewed"
	ReportDismissed ReportStatus = "dismissed"
)

// ParseReportStatus accepts only the terminal statuses a moderator may set.
func ParseReportStatus(s string) (ReportStatus, error) {
	switch ReportStatus(s) {
	case ReportReviewed, ReportDismissed:
		return ReportStatus(s), nil
	}
	return "", Validation("invalid status, must be 'reviewed' or 'dismissed'")
}

// Report is a moderation flag against a thread or reply. The target may
// be deleted after the report is filed; resolution happens at read time.
type Report struct {
	ID          int64        `json:"id"`
	Target      ReportTarget `json:"-"`
	Reason      string       `json:"reason"`
	Description string       `json:"description,omitempty"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Tombstone previews returned when a report's target no longer resolves.
const (
	TombstoneThread = "[Thread not found or deleted]"
	TombstoneReply  = "[Reply not found or deleted]"
)

// ReportView is a report with its target resolved against the live
// content tables at query time.
type ReportView struct {
	Report
	ReportType        TargetKind `json:"report_type"`
	TargetID          int64      `json:"target_id"`
	ReportedContent   string     `json:"reported_content"`
	ReportedImagePath *string    `json:"reported_image_path"`
}

// --- Coordinator Applications ---

// ApplicationStatus may move freely among all three values, unlike
// report statuses which are terminal once set.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(s) {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return ApplicationStatus(s), nil
	}
	return "", Validation("invalid status value")
}

// CoordinatorApplication is a request for elevated status backed by an
// uploaded identity document.
type CoordinatorApplication struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	EnrollmentNo string            `json:"enrollment_no"`
	Division     string            `json:"division"`
	Department   string            `json:"department"`
	IDCardPath   string            `json:"id_card_path"`
	Status       ApplicationStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ApplicationInput carries the form fields of a submission.
type ApplicationInput struct {
	Name         string `validate:"required,min=2"`
	EnrollmentNo string `validate:"required,min=3"`
	Division     string `validate:"required"`
	Department   string `validate:"required"`
}

// ApplicationFilter narrows an application listing. A nil Limit returns
// all matching rows.
type ApplicationFilter struct {
	Status *ApplicationStatus
	Search string
	Limit  *int
	Offset int
}
