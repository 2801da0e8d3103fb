package contract

import (
	"context"

	"report-bot-be/internal/entity"
)

type EmployeeRepository interface {
	FindAll(ctx context.Context) ([]entity.Employee, error)
	FindByCode(ctx context.Context, code string) (*entity.Employee, error)

	// FindApprover walks up the department tree and returns the closest
	// higher-ranked person for the applicant, or nil when none exists.
	FindApprover(ctx context.Context, userID string) (*entity.Approver, error)
}
