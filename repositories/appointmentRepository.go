package repositories

import (
	"ControlMed/cache"
	"ControlMed/database"
	"ControlMed/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const AppointmentCacheExpiry = 7 * 24 * time.Hour

var validAppointmentStatuses = map[string]bool{
	"Scheduled": true,
	"Fulfilled": true,
	"Cancelled": true,
}

type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if !validAppointmentStatuses[appointment.Status] {
		return errors.New("invalid status value")
	}

	lockKey := fmt.Sprintf("appointment_lock:%s_%s_%s", appointment.PatientID, appointment.Date, appointment.Time)

	return withLock(ctx, lockKey, func() error {
		if err := database.DB.Create(appointment).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return r.invalidate(ctx, appointment.PatientID, appointment.DoctorID)
	})
}

func (r *AppointmentRepository) GetAllByPatient(ctx context.Context, clinicID, patientID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.patientCacheKey(patientID)
	var cached []models.Appointment
	hit, err := r.cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("Failed to get appointments from cache: %v", err)
	} else if hit {
		return cached, nil
	}

	var appointments []models.Appointment
	err = database.DB.
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("date ASC, time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, appointments, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointments in cache: %v", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) GetAllByDoctor(ctx context.Context, clinicID, doctorID, date string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	query := database.DB.Where("clinic_id = ? AND doctor_id = ?", clinicID, doctorID)
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Order("date ASC, time ASC").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to get doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, clinicID, id, status string) error {
	if !validAppointmentStatuses[status] {
		return errors.New("invalid status value")
	}

	lockKey := fmt.Sprintf("appointment_lock:%s", id)

	return withLock(ctx, lockKey, func() error {
		var appointment models.Appointment
		err := database.DB.First(&appointment, "id = ? AND clinic_id = ?", id, clinicID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("appointment not found")
			}
			return fmt.Errorf("failed to get appointment: %w", err)
		}

		if err := database.DB.Model(&appointment).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update appointment status: %w", err)
		}
		return r.invalidate(ctx, appointment.PatientID, appointment.DoctorID)
	})
}

func (r *AppointmentRepository) Delete(ctx context.Context, clinicID, id string) error {
	lockKey := fmt.Sprintf("appointment_lock:%s", id)

	return withLock(ctx, lockKey, func() error {
		var appointment models.Appointment
		err := database.DB.First(&appointment, "id = ? AND clinic_id = ?", id, clinicID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get appointment: %w", err)
		}

		if err := database.DB.Delete(&appointment).Error; err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}
		return r.invalidate(ctx, appointment.PatientID, appointment.DoctorID)
	})
}

func (r *AppointmentRepository) invalidate(ctx context.Context, patientID, doctorID string) error {
	if err := r.cache.Delete(ctx, r.patientCacheKey(patientID)); err != nil {
		return fmt.Errorf("failed to delete appointments cache: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) patientCacheKey(patientID string) string {
	return fmt.Sprintf("appointments_cache:%s", patientID)
}
