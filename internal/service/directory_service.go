package service

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/repository/contract"
)

type IDirectoryService interface {
	ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error)
	GetApprover(ctx context.Context, userID string) (*dto.ApproverResponse, error)
	LinkSelection(ctx context.Context, req *dto.LinkSelectionRequest) error
}

type directoryService struct {
	employees  contract.EmployeeRepository
	selections contract.SelectionRepository
}

func NewDirectoryService(
	employees contract.EmployeeRepository,
	selections contract.SelectionRepository,
) IDirectoryService {
	return &directoryService{
		employees:  employees,
		selections: selections,
	}
}

func (s *directoryService) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, dto.EmployeeResponse{Code: e.Code, Name: e.Name})
	}
	return result, nil
}

func (s *directoryService) GetApprover(ctx context.Context, userID string) (*dto.ApproverResponse, error) {
	approver, err := s.employees.FindApprover(ctx, userID)
	if err != nil {
		return nil, err
	}
	if approver == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "approver not found")
	}
	return &dto.ApproverResponse{
		UserID:         approver.UserID,
		Name:           approver.Name,
		DepartmentName: approver.DepartmentName,
		PositionName:   approver.PositionName,
		Rank:           approver.Rank,
	}, nil
}

func (s *directoryService) LinkSelection(ctx context.Context, req *dto.LinkSelectionRequest) error {
	return s.selections.Save(ctx, req.UserID, req.EmployeeCode)
}
