package events

import "time"

// Topic names on the in-process bus.
const (
	TopicReportUploaded = "report.uploaded"
)

// ReportUploaded is published after an artifact finalizes: upload done, share
// link minted, record written.
type ReportUploaded struct {
	UserID       string    `json:"user_id"`
	EmployeeCode string    `json:"employee_code"`
	ArtifactName string    `json:"artifact_name"`
	ShareLink    string    `json:"share_link"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
