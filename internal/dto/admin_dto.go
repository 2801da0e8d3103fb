package dto

type EmployeeResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ApproverResponse struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	DepartmentName string `json:"department_name"`
	PositionName   string `json:"position_name"`
	Rank           int    `json:"rank"`
}

type LinkSelectionRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	EmployeeCode string `json:"employee_code" validate:"required,len=3,numeric"`
}
