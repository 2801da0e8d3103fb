package implementation

import (
	"context"

	"report-bot-be/internal/entity"
	"report-bot-be/internal/mapper"
	"report-bot-be/internal/model"
	"report-bot-be/internal/repository/contract"
	"report-bot-be/pkg/store"

	"gorm.io/gorm"
)

type ReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReportMapper
}

func NewReportRepository(db *gorm.DB) contract.ReportRepository {
	return &ReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewReportMapper(),
	}
}

func (r *ReportRepositoryImpl) FindByCategory(ctx context.Context, category store.Category) ([]entity.Report, error) {
	var rows []*model.Report
	query := r.db.WithContext(ctx).Order("write_date DESC")
	if category != "" {
		query = query.Where("report_select = ?", string(category))
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *ReportRepositoryImpl) Upsert(ctx context.Context, report *entity.Report) error {
	row := r.mapper.ToModel(report)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("report_name = ? AND report_select = ?", row.ReportName, row.ReportSelect).
			Delete(&model.Report{}).Error
		if err != nil {
			return err
		}
		return tx.Create(row).Error
	})
}
