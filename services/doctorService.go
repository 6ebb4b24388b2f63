package services

import (
	"ControlMed/models"
	"ControlMed/repositories"
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type DoctorService struct {
	repository *repositories.DoctorRepository
}

func NewDoctorService(repository *repositories.DoctorRepository) *DoctorService {
	return &DoctorService{repository: repository}
}

func validateDoctor(doctor *models.Doctor) error {
	return validation.ValidateStruct(doctor,
		validation.Field(&doctor.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&doctor.ClinicID, validation.Required),
		validation.Field(&doctor.Email, is.Email),
	)
}

func (s *DoctorService) Create(ctx context.Context, doctor *models.Doctor) error {
	if err := validateDoctor(doctor); err != nil {
		return err
	}
	return s.repository.Create(ctx, doctor)
}

func (s *DoctorService) GetAll(ctx context.Context, clinicID string) ([]models.Doctor, error) {
	return s.repository.GetAll(ctx, clinicID)
}

func (s *DoctorService) Update(ctx context.Context, doctor *models.Doctor) error {
	if err := validateDoctor(doctor); err != nil {
		return err
	}
	return s.repository.Update(ctx, doctor)
}

func (s *DoctorService) Delete(ctx context.Context, clinicID, id string) error {
	return s.repository.Delete(ctx, clinicID, id)
}
