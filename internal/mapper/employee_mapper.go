package mapper

import (
	"report-bot-be/internal/entity"
	"report-bot-be/internal/model"
)

type EmployeeMapper struct{}

func NewEmployeeMapper() *EmployeeMapper {
	return &EmployeeMapper{}
}

func (m *EmployeeMapper) ToEntity(e *model.Employee) *entity.Employee {
	if e == nil {
		return nil
	}
	return &entity.Employee{
		Code: e.EmployeeCode,
		Name: e.EmployeeName,
	}
}

func (m *EmployeeMapper) ToEntities(models []*model.Employee) []entity.Employee {
	out := make([]entity.Employee, 0, len(models))
	for _, e := range models {
		if mapped := m.ToEntity(e); mapped != nil {
			out = append(out, *mapped)
		}
	}
	return out
}
