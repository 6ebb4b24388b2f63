package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ControlMed/models"
)

// BudgetStatusDraft is the status every assistant-created budget starts in;
// acceptance and edits happen outside this flow.
const BudgetStatusDraft = "DRAFT"

// BudgetItem is one priced treatment line.
type BudgetItem struct {
	Name     string
	Price    float64
	Tooth    string
	Quantity int
}

// BudgetBuilder turns a list of treatment lines into a persisted draft budget
// with its line items.
type BudgetBuilder struct {
	store BudgetStore
	now   func() time.Time
}

func NewBudgetBuilder(store BudgetStore) *BudgetBuilder {
	return &BudgetBuilder{store: store, now: time.Now}
}

// CreateBudget computes the total before any row is written, then persists
// one DRAFT header plus one line item per input item. Quantity defaults to 1.
// Malformed items are never silently dropped; a failing write fails the whole
// action.
func (b *BudgetBuilder) CreateBudget(ctx context.Context, clinicID, patientID string, items []BudgetItem) (*models.Budget, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("budget requires at least one item")
	}

	total := 0.0
	for i := range items {
		if items[i].Quantity <= 0 {
			items[i].Quantity = 1
		}
		total += items[i].Price * float64(items[i].Quantity)
	}

	budget := &models.Budget{
		ID:          uuid.New().String(),
		ClinicID:    clinicID,
		PatientID:   patientID,
		Status:      BudgetStatusDraft,
		TotalAmount: total,
		Date:        b.now(),
	}

	lineItems := make([]models.BudgetLineItem, 0, len(items))
	for _, item := range items {
		line := models.BudgetLineItem{
			ID:       uuid.New().String(),
			BudgetID: budget.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
		if item.Tooth != "" {
			tooth := item.Tooth
			line.Tooth = &tooth
		}
		lineItems = append(lineItems, line)
	}

	if err := b.store.Create(ctx, budget, lineItems); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	budget.Items = lineItems
	return budget, nil
}
