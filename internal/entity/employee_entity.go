package entity

// Employee is one selectable subject from the directory. Codes are 3-digit,
// zero-padded strings.
type Employee struct {
	Code string
	Name string
}

// Approver is the closest higher-ranked person above an applicant in the
// department tree.
type Approver struct {
	UserID         string
	Name           string
	DepartmentName string
	PositionName   string
	Rank           int
}
