package implementation

import (
	"context"
	"errors"

	"report-bot-be/internal/model"
	"report-bot-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SelectionRepositoryImpl struct {
	db *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) contract.SelectionRepository {
	return &SelectionRepositoryImpl{db: db}
}

func (r *SelectionRepositoryImpl) Get(ctx context.Context, userID string) (string, error) {
	var row model.UserSelection
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return row.EmployeeCode, nil
}

func (r *SelectionRepositoryImpl) Save(ctx context.Context, userID, employeeCode string) error {
	row := model.UserSelection{UserID: userID, EmployeeCode: employeeCode}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"employee_code"}),
	}).Create(&row).Error
}
