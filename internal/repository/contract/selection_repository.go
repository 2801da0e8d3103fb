package contract

import "context"

// SelectionRepository persists the last employee code a chat user selected.
type SelectionRepository interface {
	Get(ctx context.Context, userID string) (string, error)
	Save(ctx context.Context, userID, employeeCode string) error
}
