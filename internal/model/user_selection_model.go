package model

// UserSelection remembers the employee a chat user picked last, used to pin
// that employee to the front of the next carousel.
type UserSelection struct {
	UserID       string `gorm:"type:varchar(64);primaryKey;column:user_id"`
	EmployeeCode string `gorm:"type:varchar(10);not null;column:employee_code"`
}

func (UserSelection) TableName() string {
	return "user_selections"
}
