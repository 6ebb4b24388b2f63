package services

import (
	"ControlMed/assistant"
	"ControlMed/repositories"
	"context"
)

type OdontogramService struct {
	repository *repositories.OdontogramRepository
}

func NewOdontogramService(repository *repositories.OdontogramRepository) *OdontogramService {
	return &OdontogramService{repository: repository}
}

func (s *OdontogramService) Get(ctx context.Context, clinicID, patientID string) (assistant.OdontogramState, error) {
	return s.repository.Load(ctx, clinicID, patientID)
}

// Replace stores a full tooth map, optionally guarded by an expected version.
func (s *OdontogramService) Replace(ctx context.Context, clinicID, patientID string, teeth map[string]assistant.ToothEntry, expectedVersion *int) (assistant.OdontogramState, error) {
	if teeth == nil {
		teeth = make(map[string]assistant.ToothEntry)
	}
	return s.repository.Save(ctx, clinicID, patientID, teeth, expectedVersion)
}
