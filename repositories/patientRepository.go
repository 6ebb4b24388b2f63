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
	"gorm.io/gorm/clause"
)

const PatientCacheExpiry = 7 * 24 * time.Hour

type PatientRepository struct {
	cache *cache.Cache
}

func NewPatientRepository(cache *cache.Cache) *PatientRepository {
	return &PatientRepository{cache: cache}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s_%s_%s", patient.ClinicID, patient.Name, patient.DateOfBirth)

	return withLock(ctx, lockKey, func() error {
		// Reject duplicates within the clinic
		var existing models.Patient
		err := database.DB.Where("clinic_id = ? AND name = ? AND date_of_birth = ?",
			patient.ClinicID, patient.Name, patient.DateOfBirth).First(&existing).Error
		if err == nil {
			return fmt.Errorf("patient with the same details already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for existing patient: %w", err)
		}

		if patient.ID == "" {
			var nextID string
			if err := database.DB.Raw("SELECT 'PAC-' || LPAD(nextval('patient_id_seq')::TEXT, 6, '0')").Scan(&nextID).Error; err != nil {
				return fmt.Errorf("failed to obtain next sequence value: %w", err)
			}
			patient.ID = nextID
		}

		return database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(patient).Error; err != nil {
				return fmt.Errorf("failed to create patient: %w", err)
			}
			if err := r.cache.Delete(ctx, r.patientCacheKey(patient.ID)); err != nil {
				return fmt.Errorf("failed to delete patient cache: %w", err)
			}
			return r.cache.DeleteAll(ctx, r.listCacheKey(patient.ClinicID))
		})
	})
}

func (r *PatientRepository) GetByID(ctx context.Context, clinicID, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.patientCacheKey(id)
	var cached models.Patient
	hit, err := r.cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("Failed to get patient from cache: %v", err)
	} else if hit && cached.ClinicID == clinicID {
		return &cached, nil
	}

	var patient models.Patient
	err = database.DB.First(&patient, "id = ? AND clinic_id = ?", id, clinicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patient, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patient in cache: %v", err)
	}
	return &patient, nil
}

func (r *PatientRepository) GetAll(ctx context.Context, clinicID string) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.listCacheKey(clinicID)
	var cached []models.Patient
	hit, err := r.cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("Failed to get patients from cache: %v", err)
	} else if hit {
		return cached, nil
	}

	var patients []models.Patient
	if err := database.DB.Where("clinic_id = ?", clinicID).Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patients, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patients in cache: %v", err)
	}
	return patients, nil
}

// FindByName resolves a case-insensitive substring match within a clinic.
// Ties break on the lowest patient id so repeated searches stay
// deterministic. Reads go straight to the database: name lookups feed writes
// and must not see stale cache entries.
func (r *PatientRepository) FindByName(ctx context.Context, clinicID, namePattern string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patient models.Patient
	err := database.DB.
		Where("clinic_id = ? AND name ILIKE ?", clinicID, "%"+namePattern+"%").
		Order("id ASC").
		First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search patient by name: %w", err)
	}
	return &patient, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s", patient.ID)

	return withLock(ctx, lockKey, func() error {
		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "dni", "email", "phone", "address", "date_of_birth", "assigned_doctor_id"}),
		}).Save(patient).Error
		if err != nil {
			return fmt.Errorf("failed to update patient: %w", err)
		}

		if err := r.cache.Delete(ctx, r.patientCacheKey(patient.ID)); err != nil {
			return fmt.Errorf("failed to delete patient cache: %w", err)
		}
		return r.cache.DeleteAll(ctx, r.listCacheKey(patient.ClinicID))
	})
}

// Delete removes the patient and every dependent row. The assistant never
// calls this; it backs the front-desk CRUD surface.
func (r *PatientRepository) Delete(ctx context.Context, clinicID, id string) error {
	lockKey := fmt.Sprintf("patient_lock:%s", id)

	return withLock(ctx, lockKey, func() error {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("patient_id = ?", id).Delete(&models.Odontogram{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Where("budget_id IN (?)", tx.Model(&models.Budget{}).Select("id").Where("patient_id = ?", id)).
				Delete(&models.BudgetLineItem{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.Budget{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.ClinicalRecord{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.Appointment{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return tx.Delete(&models.Patient{}, "id = ? AND clinic_id = ?", id, clinicID).Error
		})
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}

		if err := r.cache.Delete(ctx, r.patientCacheKey(id)); err != nil {
			return fmt.Errorf("failed to delete patient cache: %w", err)
		}
		return r.cache.DeleteAll(ctx, r.listCacheKey(clinicID))
	})
}

func (r *PatientRepository) patientCacheKey(patientID string) string {
	return fmt.Sprintf("patient_cache:%s", patientID)
}

func (r *PatientRepository) listCacheKey(clinicID string) string {
	return fmt.Sprintf("patients_cache:%s", clinicID)
}
