package model

// Employee mirrors the employees directory table.
type Employee struct {
	EmployeeCode string `gorm:"type:varchar(10);primaryKey"`
	EmployeeName string `gorm:"type:varchar(100);not null"`
}

func (Employee) TableName() string {
	return "employees"
}

// Department is one node of the organizational tree.
type Department struct {
	DepartmentID       int    `gorm:"primaryKey;column:department_id"`
	DepartmentFullName string `gorm:"type:varchar(200);column:department_full_name"`
	ParentDepartmentID *int   `gorm:"column:parent_department_id"`
}

func (Department) TableName() string {
	return "departments"
}

// EmployeePosition assigns a user to a department with a rank. Lower rank
// means higher authority.
type EmployeePosition struct {
	UserID             string `gorm:"type:varchar(64);column:user_id"`
	DepartmentFullName string `gorm:"type:varchar(200);column:department_full_name"`
	PositionName       string `gorm:"type:varchar(100);column:position_name"`
	Rank               int    `gorm:"column:rank"`
}

func (EmployeePosition) TableName() string {
	return "employee_positions"
}
