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

const BudgetCacheExpiry = 24 * time.Hour

type BudgetRepository struct {
	cache *cache.Cache
}

func NewBudgetRepository(cache *cache.Cache) *BudgetRepository {
	return &BudgetRepository{cache: cache}
}

// Create inserts the budget header and its line items in one transaction, so
// a budget can never exist half-written.
func (r *BudgetRepository) Create(ctx context.Context, budget *models.Budget, items []models.BudgetLineItem) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			return fmt.Errorf("failed to create budget: %w", err)
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to create budget line items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, r.listCacheKey(budget.PatientID)); err != nil {
		log.Printf("Failed to delete budgets cache: %v", err)
	}
	return nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, clinicID, id string) (*models.Budget, error) {
	var budget models.Budget
	err := database.DB.Preload("Items").First(&budget, "id = ? AND clinic_id = ?", id, clinicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

// RecentByPatient returns the newest budgets first, at most limit of them.
func (r *BudgetRepository) RecentByPatient(ctx context.Context, clinicID, patientID string, limit int) ([]models.Budget, error) {
	var budgets []models.Budget
	err := database.DB.
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("date DESC").
		Limit(limit).
		Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent budgets: %w", err)
	}
	return budgets, nil
}

func (r *BudgetRepository) GetAllByPatient(ctx context.Context, clinicID, patientID string) ([]models.Budget, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.listCacheKey(patientID)
	var cached []models.Budget
	hit, err := r.cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("Failed to get budgets from cache: %v", err)
	} else if hit {
		return cached, nil
	}

	var budgets []models.Budget
	err = database.DB.Preload("Items").
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("date DESC").
		Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, budgets, BudgetCacheExpiry); err != nil {
		log.Printf("Failed to set budgets in cache: %v", err)
	}
	return budgets, nil
}

// UpdateStatus moves a budget out of DRAFT. The assistant never calls this;
// acceptance and rejection happen at the front desk.
func (r *BudgetRepository) UpdateStatus(ctx context.Context, clinicID, id, status string) error {
	lockKey := fmt.Sprintf("budget_lock:%s", id)

	return withLock(ctx, lockKey, func() error {
		result := database.DB.Model(&models.Budget{}).
			Where("id = ? AND clinic_id = ?", id, clinicID).
			Update("status", status)
		if result.Error != nil {
			return fmt.Errorf("failed to update budget status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("budget not found")
		}

		var budget models.Budget
		if err := database.DB.Select("patient_id").First(&budget, "id = ?", id).Error; err == nil {
			if err := r.cache.Delete(ctx, r.listCacheKey(budget.PatientID)); err != nil {
				log.Printf("Failed to delete budgets cache: %v", err)
			}
		}
		return nil
	})
}

func (r *BudgetRepository) listCacheKey(patientID string) string {
	return fmt.Sprintf("budgets_cache:%s", patientID)
}
