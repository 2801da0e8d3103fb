package store

import "time"

// Step is the position of a user inside the conversation flow.
type Step string

const (
	StepWaiting              Step = "waiting"
	StepSelectEmployee       Step = "selectEmployee"
	StepSelectReport         Step = "selectReport"
	StepSelectShijishoOption Step = "selectShijishoOption"
	StepWaitingForUpload     Step = "waitingForUpload"
	StepCollecting           Step = "collecting"
	StepWaitingForFilename   Step = "waitingForFilename"
)

// Mode tells whether the user is retrieving or submitting artifacts.
type Mode string

const (
	ModeView   Mode = "view"
	ModeUpload Mode = "upload"
)

// Category is the workflow track a report belongs to. The string value is the
// chat command label and the value stored in the reports table.
type Category string

const (
	CategoryOrder       Category = "オーダー"
	CategoryPerformance Category = "実績"
	CategoryInstruction Category = "指示書"
)

// EmployeeRef points at the subject of the current report or upload.
type EmployeeRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Temp keys used by the upload flow.
const (
	TempUploadedFilePath = "uploadedFilePath"
	TempFileNameInput    = "fileNameInput"
	TempEmployeeCode     = "employeeCode"
	TempEmployeeName     = "employeeName"
)

// Session is the per-user conversation state. It is treated as a value:
// transitions return a fresh copy and the repository replaces the record
// wholesale, never merges.
type Session struct {
	UserID           string            `json:"user_id"`
	Step             Step              `json:"step"`
	Mode             Mode              `json:"mode"`
	Category         Category          `json:"category"`
	SelectedEmployee *EmployeeRef      `json:"selected_employee,omitempty"`
	Temp             map[string]string `json:"temp,omitempty"`
	LastAccessed     time.Time         `json:"last_accessed"`
}

// New returns a blank session for the user.
func New(userID string) Session {
	return Session{
		UserID:       userID,
		Step:         StepWaiting,
		LastAccessed: time.Now(),
	}
}

// WithStep returns a copy of the session positioned on step.
func (s Session) WithStep(step Step) Session {
	s.Step = step
	s.LastAccessed = time.Now()
	return s
}

// WithMode returns a copy of the session in the given mode and category.
func (s Session) WithMode(mode Mode, category Category) Session {
	s.Mode = mode
	s.Category = category
	s.LastAccessed = time.Now()
	return s
}

// WithCategory returns a copy of the session on the given workflow track.
func (s Session) WithCategory(category Category) Session {
	s.Category = category
	s.LastAccessed = time.Now()
	return s
}

// WithEmployee returns a copy of the session with the subject employee set.
func (s Session) WithEmployee(ref EmployeeRef) Session {
	s.SelectedEmployee = &ref
	s.LastAccessed = time.Now()
	return s
}

// WithTemp returns a copy of the session with one transient value set. The
// temp map is copied so the previous session keeps its own view.
func (s Session) WithTemp(key, value string) Session {
	next := make(map[string]string, len(s.Temp)+1)
	for k, v := range s.Temp {
		next[k] = v
	}
	next[key] = value
	s.Temp = next
	s.LastAccessed = time.Now()
	return s
}

// TempValue reads a transient value, empty string when absent.
func (s Session) TempValue(key string) string {
	if s.Temp == nil {
		return ""
	}
	return s.Temp[key]
}
