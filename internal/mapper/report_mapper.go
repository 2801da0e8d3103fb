package mapper

import (
	"report-bot-be/internal/entity"
	"report-bot-be/internal/model"
	"report-bot-be/pkg/store"
)

type ReportMapper struct{}

func NewReportMapper() *ReportMapper {
	return &ReportMapper{}
}

func (m *ReportMapper) ToEntity(r *model.Report) *entity.Report {
	if r == nil {
		return nil
	}
	return &entity.Report{
		Name:      r.ReportName,
		Category:  store.Category(r.ReportSelect),
		WriteDate: r.WriteDate,
	}
}

func (m *ReportMapper) ToModel(r *entity.Report) *model.Report {
	if r == nil {
		return nil
	}
	return &model.Report{
		ReportName:   r.Name,
		ReportSelect: string(r.Category),
		WriteDate:    r.WriteDate,
	}
}

func (m *ReportMapper) ToEntities(models []*model.Report) []entity.Report {
	out := make([]entity.Report, 0, len(models))
	for _, r := range models {
		if mapped := m.ToEntity(r); mapped != nil {
			out = append(out, *mapped)
		}
	}
	return out
}
