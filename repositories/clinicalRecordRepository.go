package repositories

import (
	"ControlMed/cache"
	"ControlMed/database"
	"ControlMed/models"
	"context"
	"fmt"
	"log"
	"time"
)

const ClinicalRecordCacheExpiry = 24 * time.Hour

// ClinicalRecordRepository persists the append-only patient timeline. Rows
// are never updated or deleted.
type ClinicalRecordRepository struct {
	cache *cache.Cache
}

func NewClinicalRecordRepository(cache *cache.Cache) *ClinicalRecordRepository {
	return &ClinicalRecordRepository{cache: cache}
}

func (r *ClinicalRecordRepository) Append(ctx context.Context, record *models.ClinicalRecord) error {
	if err := database.DB.Create(record).Error; err != nil {
		return fmt.Errorf("failed to append clinical record: %w", err)
	}
	if err := r.cache.Delete(ctx, r.listCacheKey(record.PatientID)); err != nil {
		log.Printf("Failed to delete clinical records cache: %v", err)
	}
	return nil
}

// RecentByPatient returns the newest records first, at most limit of them.
func (r *ClinicalRecordRepository) RecentByPatient(ctx context.Context, clinicID, patientID string, limit int) ([]models.ClinicalRecord, error) {
	var records []models.ClinicalRecord
	err := database.DB.
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("date DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent clinical records: %w", err)
	}
	return records, nil
}

func (r *ClinicalRecordRepository) GetAllByPatient(ctx context.Context, clinicID, patientID string) ([]models.ClinicalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.listCacheKey(patientID)
	var cached []models.ClinicalRecord
	hit, err := r.cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("Failed to get clinical records from cache: %v", err)
	} else if hit {
		return cached, nil
	}

	var records []models.ClinicalRecord
	err = database.DB.
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get clinical records: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, records, ClinicalRecordCacheExpiry); err != nil {
		log.Printf("Failed to set clinical records in cache: %v", err)
	}
	return records, nil
}

func (r *ClinicalRecordRepository) listCacheKey(patientID string) string {
	return fmt.Sprintf("clinical_records_cache:%s", patientID)
}
