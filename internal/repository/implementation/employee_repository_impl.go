package implementation

import (
	"context"
	"errors"

	"report-bot-be/internal/entity"
	"report-bot-be/internal/mapper"
	"report-bot-be/internal/model"
	"report-bot-be/internal/repository/contract"

	"gorm.io/gorm"
)

type EmployeeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmployeeMapper
}

func NewEmployeeRepository(db *gorm.DB) contract.EmployeeRepository {
	return &EmployeeRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmployeeMapper(),
	}
}

func (r *EmployeeRepositoryImpl) FindAll(ctx context.Context) ([]entity.Employee, error) {
	var rows []*model.Employee
	if err := r.db.WithContext(ctx).Order("employee_code").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *EmployeeRepositoryImpl) FindByCode(ctx context.Context, code string) (*entity.Employee, error) {
	var row model.Employee
	err := r.db.WithContext(ctx).Where("employee_code = ?", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&row), nil
}

// approverQuery walks from the applicant's department up through parents and
// picks the single best candidate: highest rank number below the applicant's
// own, nearest level first. Rank 5 is the last rung considered an approver.
const approverQuery = `
WITH RECURSIVE own_department AS (
    SELECT d.department_id, d.department_full_name, d.parent_department_id
    FROM employee_positions r
    JOIN departments d ON r.department_full_name = d.department_full_name
    WHERE r.user_id = ?
), upper_departments AS (
    SELECT department_id, department_full_name, parent_department_id, 0 AS level
    FROM own_department
    UNION ALL
    SELECT d.department_id, d.department_full_name, d.parent_department_id, ud.level + 1
    FROM departments d
    JOIN upper_departments ud ON d.department_id = ud.parent_department_id
), own_rank AS (
    SELECT MIN(r.rank) AS my_rank
    FROM employee_positions r
    WHERE r.user_id = ?
), candidates AS (
    SELECT r.user_id, e.employee_name, r.department_full_name, r.position_name, r.rank,
           ROW_NUMBER() OVER (ORDER BY r.rank DESC, ud.level ASC) AS row_num
    FROM employee_positions r
    JOIN departments d ON r.department_full_name = d.department_full_name
    JOIN upper_departments ud ON d.department_id = ud.department_id
    JOIN own_rank sr ON r.rank < sr.my_rank
    JOIN employees e ON r.user_id = e.employee_code
    WHERE r.user_id <> ? AND r.rank <= 5
)
SELECT user_id, employee_name, department_full_name, position_name, rank
FROM candidates
WHERE row_num = 1
`

func (r *EmployeeRepositoryImpl) FindApprover(ctx context.Context, userID string) (*entity.Approver, error) {
	var row struct {
		UserID             string
		EmployeeName       string
		DepartmentFullName string
		PositionName       string
		Rank               int
	}
	err := r.db.WithContext(ctx).Raw(approverQuery, userID, userID, userID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.UserID == "" {
		return nil, nil
	}
	return &entity.Approver{
		UserID:         row.UserID,
		Name:           row.EmployeeName,
		DepartmentName: row.DepartmentFullName,
		PositionName:   row.PositionName,
		Rank:           row.Rank,
	}, nil
}
