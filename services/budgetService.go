package services

import (
	"ControlMed/models"
	"ControlMed/repositories"
	"context"
)

type BudgetService struct {
	repository *repositories.BudgetRepository
}

func NewBudgetService(repository *repositories.BudgetRepository) *BudgetService {
	return &BudgetService{repository: repository}
}

func (s *BudgetService) GetByID(ctx context.Context, clinicID, id string) (*models.Budget, error) {
	return s.repository.GetByID(ctx, clinicID, id)
}

func (s *BudgetService) GetAllByPatient(ctx context.Context, clinicID, patientID string) ([]models.Budget, error) {
	return s.repository.GetAllByPatient(ctx, clinicID, patientID)
}

func (s *BudgetService) UpdateStatus(ctx context.Context, clinicID, id, status string) error {
	return s.repository.UpdateStatus(ctx, clinicID, id, status)
}
