package repositories

import (
	"ControlMed/assistant"
	"ControlMed/cache"
	"ControlMed/database"
	"ControlMed/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const OdontogramCacheExpiry = 24 * time.Hour

// OdontogramRepository persists the one-row-per-patient dental chart. The
// whole tooth map is serialized into the row; every save replaces it.
type OdontogramRepository struct {
	cache *cache.Cache
}

func NewOdontogramRepository(cache *cache.Cache) *OdontogramRepository {
	return &OdontogramRepository{cache: cache}
}

// Load returns the patient's chart state. A missing row yields an empty
// non-existent state. A row whose teeth blob no longer unmarshals is treated
// as an existing chart with no teeth, so one bad write never bricks the
// patient's record.
func (r *OdontogramRepository) Load(ctx context.Context, clinicID, patientID string) (assistant.OdontogramState, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.odontogramCacheKey(patientID)
	var cachedRow models.Odontogram
	hit, err := r.cache.GetJSON(ctx, cacheKey, &cachedRow)
	if err != nil {
		log.Printf("Failed to get odontogram from cache: %v", err)
	} else if hit && cachedRow.ClinicID == clinicID {
		return rowToState(&cachedRow), nil
	}

	var row models.Odontogram
	err = database.DB.First(&row, "patient_id = ? AND clinic_id = ?", patientID, clinicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return assistant.OdontogramState{Teeth: make(map[string]assistant.ToothEntry)}, nil
		}
		return assistant.OdontogramState{}, fmt.Errorf("failed to load odontogram: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, row, OdontogramCacheExpiry); err != nil {
		log.Printf("Failed to set odontogram in cache: %v", err)
	}
	return rowToState(&row), nil
}

// Save replaces the patient's chart whole under a per-patient lock. When
// expectedVersion is set and no longer matches, the write is rejected with a
// version conflict; otherwise last write wins.
func (r *OdontogramRepository) Save(ctx context.Context, clinicID, patientID string, teeth map[string]assistant.ToothEntry, expectedVersion *int) (assistant.OdontogramState, error) {
	raw, err := json.Marshal(teeth)
	if err != nil {
		return assistant.OdontogramState{}, fmt.Errorf("failed to marshal odontogram teeth: %w", err)
	}

	lockKey := fmt.Sprintf("odontogram_lock:%s", patientID)
	var saved models.Odontogram

	err = withLock(ctx, lockKey, func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var current models.Odontogram
			err := tx.First(&current, "patient_id = ? AND clinic_id = ?", patientID, clinicID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if expectedVersion != nil && *expectedVersion != 0 {
					return &assistant.VersionConflictError{Expected: *expectedVersion, Actual: 0}
				}
				saved = models.Odontogram{
					ID:        uuid.New().String(),
					ClinicID:  clinicID,
					PatientID: patientID,
					Teeth:     string(raw),
					Version:   1,
				}
				return tx.Create(&saved).Error
			case err != nil:
				return fmt.Errorf("failed to load odontogram for save: %w", err)
			}

			if expectedVersion != nil && *expectedVersion != current.Version {
				return &assistant.VersionConflictError{Expected: *expectedVersion, Actual: current.Version}
			}

			current.Teeth = string(raw)
			current.Version++
			if err := tx.Save(&current).Error; err != nil {
				return fmt.Errorf("failed to save odontogram: %w", err)
			}
			saved = current
			return nil
		})
	})
	if err != nil {
		return assistant.OdontogramState{}, err
	}

	if err := r.cache.Delete(ctx, r.odontogramCacheKey(patientID)); err != nil {
		log.Printf("Failed to delete odontogram cache: %v", err)
	}
	return rowToState(&saved), nil
}

func rowToState(row *models.Odontogram) assistant.OdontogramState {
	teeth := make(map[string]assistant.ToothEntry)
	if err := json.Unmarshal([]byte(row.Teeth), &teeth); err != nil {
		teeth = make(map[string]assistant.ToothEntry)
	}
	return assistant.OdontogramState{Exists: true, Version: row.Version, Teeth: teeth}
}

func (r *OdontogramRepository) odontogramCacheKey(patientID string) string {
	return fmt.Sprintf("odontogram_cache:%s", patientID)
}
