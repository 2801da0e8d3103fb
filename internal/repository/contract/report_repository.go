package contract

import (
	"context"

	"report-bot-be/internal/entity"
	"report-bot-be/pkg/store"
)

type ReportRepository interface {
	FindByCategory(ctx context.Context, category store.Category) ([]entity.Report, error)

	// Upsert replaces any record with the same name and category, then
	// inserts the new row.
	Upsert(ctx context.Context, report *entity.Report) error
}
