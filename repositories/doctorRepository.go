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

const DoctorCacheExpiry = 7 * 24 * time.Hour

type DoctorRepository struct {
	cache *cache.Cache
}

func NewDoctorRepository(cache *cache.Cache) *DoctorRepository {
	return &DoctorRepository{cache: cache}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	lockKey := fmt.Sprintf("doctor_lock:%s_%s", doctor.ClinicID, doctor.Name)

	return withLock(ctx, lockKey, func() error {
		var existing models.Doctor
		err := database.DB.Where("clinic_id = ? AND name = ?", doctor.ClinicID, doctor.Name).First(&existing).Error
		if err == nil {
			return fmt.Errorf("doctor with the same name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for existing doctor: %w", err)
		}

		if doctor.ID == "" {
			var nextID string
			if err := database.DB.Raw("SELECT 'DR-' || LPAD(nextval('doctor_id_seq')::TEXT, 6, '0')").Scan(&nextID).Error; err != nil {
				return fmt.Errorf("failed to obtain next sequence value: %w", err)
			}
			doctor.ID = nextID
		}

		if err := database.DB.Create(doctor).Error; err != nil {
			return fmt.Errorf("failed to create doctor: %w", err)
		}
		return r.cache.Delete(ctx, r.listCacheKey(doctor.ClinicID))
	})
}

func (r *DoctorRepository) GetAll(ctx context.Context, clinicID string) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.listCacheKey(clinicID)
	var cached []models.Doctor
	hit, err := r.cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("Failed to get doctors from cache: %v", err)
	} else if hit {
		return cached, nil
	}

	var doctors []models.Doctor
	if err := database.DB.Where("clinic_id = ?", clinicID).Order("id ASC").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("failed to get all doctors: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, doctors, DoctorCacheExpiry); err != nil {
		log.Printf("Failed to set doctors in cache: %v", err)
	}
	return doctors, nil
}

// First returns the clinic's doctor with the lowest id, or nil when the
// clinic has none. Used as the default appointment assignee.
func (r *DoctorRepository) First(ctx context.Context, clinicID string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := database.DB.Where("clinic_id = ?", clinicID).Order("id ASC").First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get first doctor: %w", err)
	}
	return &doctor, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	lockKey := fmt.Sprintf("doctor_lock:%s", doctor.ID)

	return withLock(ctx, lockKey, func() error {
		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "specialty", "email"}),
		}).Save(doctor).Error
		if err != nil {
			return fmt.Errorf("failed to update doctor: %w", err)
		}
		return r.cache.Delete(ctx, r.listCacheKey(doctor.ClinicID))
	})
}

func (r *DoctorRepository) Delete(ctx context.Context, clinicID, id string) error {
	lockKey := fmt.Sprintf("doctor_lock:%s", id)

	return withLock(ctx, lockKey, func() error {
		if err := database.DB.Delete(&models.Doctor{}, "id = ? AND clinic_id = ?", id, clinicID).Error; err != nil {
			return fmt.Errorf("failed to delete doctor: %w", err)
		}
		return r.cache.Delete(ctx, r.listCacheKey(clinicID))
	})
}

func (r *DoctorRepository) listCacheKey(clinicID string) string {
	return fmt.Sprintf("doctors_cache:%s", clinicID)
}
