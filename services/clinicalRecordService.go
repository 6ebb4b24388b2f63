package services

import (
	"ControlMed/models"
	"ControlMed/repositories"
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type ClinicalRecordService struct {
	repository *repositories.ClinicalRecordRepository
}

func NewClinicalRecordService(repository *repositories.ClinicalRecordRepository) *ClinicalRecordService {
	return &ClinicalRecordService{repository: repository}
}

// Create appends a manually entered record to the patient's timeline.
func (s *ClinicalRecordService) Create(ctx context.Context, record *models.ClinicalRecord) error {
	if err := validation.ValidateStruct(record,
		validation.Field(&record.ClinicID, validation.Required),
		validation.Field(&record.PatientID, validation.Required),
		validation.Field(&record.Text, validation.Required),
	); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	return s.repository.Append(ctx, record)
}

func (s *ClinicalRecordService) GetAllByPatient(ctx context.Context, clinicID, patientID string) ([]models.ClinicalRecord, error) {
	return s.repository.GetAllByPatient(ctx, clinicID, patientID)
}
