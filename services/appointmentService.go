package services

import (
	"ControlMed/models"
	"ControlMed/repositories"
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type AppointmentService struct {
	repository *repositories.AppointmentRepository
}

func NewAppointmentService(repository *repositories.AppointmentRepository) *AppointmentService {
	return &AppointmentService{repository: repository}
}

func (s *AppointmentService) Create(ctx context.Context, appointment *models.Appointment) error {
	err := validation.ValidateStruct(appointment,
		validation.Field(&appointment.PatientID, validation.Required),
		validation.Field(&appointment.DoctorID, validation.Required),
		validation.Field(&appointment.Date, validation.Required),
		validation.Field(&appointment.Time, validation.Required),
	)
	if err != nil {
		return err
	}
	return s.repository.Create(ctx, appointment)
}

func (s *AppointmentService) GetAllByPatient(ctx context.Context, clinicID, patientID string) ([]models.Appointment, error) {
	return s.repository.GetAllByPatient(ctx, clinicID, patientID)
}

func (s *AppointmentService) GetAllByDoctor(ctx context.Context, clinicID, doctorID, date string) ([]models.Appointment, error) {
	return s.repository.GetAllByDoctor(ctx, clinicID, doctorID, date)
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, clinicID, id, status string) error {
	return s.repository.UpdateStatus(ctx, clinicID, id, status)
}

func (s *AppointmentService) Delete(ctx context.Context, clinicID, id string) error {
	return s.repository.Delete(ctx, clinicID, id)
}
