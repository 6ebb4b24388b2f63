package services

import (
	"ControlMed/models"
	"ControlMed/repositories"
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type PatientService struct {
	repository *repositories.PatientRepository
}

func NewPatientService(repository *repositories.PatientRepository) *PatientService {
	return &PatientService{repository: repository}
}

func validatePatient(patient *models.Patient) error {
	return validation.ValidateStruct(patient,
		validation.Field(&patient.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&patient.ClinicID, validation.Required),
	)
}

func (s *PatientService) Create(ctx context.Context, patient *models.Patient) error {
	if err := validatePatient(patient); err != nil {
		return err
	}
	return s.repository.Create(ctx, patient)
}

func (s *PatientService) GetByID(ctx context.Context, clinicID, id string) (*models.Patient, error) {
	return s.repository.GetByID(ctx, clinicID, id)
}

func (s *PatientService) GetAll(ctx context.Context, clinicID string) ([]models.Patient, error) {
	return s.repository.GetAll(ctx, clinicID)
}

func (s *PatientService) Update(ctx context.Context, patient *models.Patient) error {
	if err := validatePatient(patient); err != nil {
		return err
	}
	return s.repository.Update(ctx, patient)
}

func (s *PatientService) Delete(ctx context.Context, clinicID, id string) error {
	return s.repository.Delete(ctx, clinicID, id)
}
