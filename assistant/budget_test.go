package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBudgetComputesTotal(t *testing.T) {
	store := newFakeBudgetStore()
	builder := NewBudgetBuilder(store)

	budget, err := builder.CreateBudget(context.Background(), testClinic, "PAC-000001", []BudgetItem{
		{Name: "Endodoncia", Price: 250, Tooth: "18", Quantity: 1},
		{Name: "Empaste", Price: 60, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 370.0, budget.TotalAmount)
	assert.Equal(t, BudgetStatusDraft, budget.Status)
	require.Len(t, store.budgets, 1)
	assert.Len(t, store.items[budget.ID], 2)
}

func TestCreateBudgetDefaultsQuantityToOne(t *testing.T) {
	store := newFakeBudgetStore()
	builder := NewBudgetBuilder(store)

	budget, err := builder.CreateBudget(context.Background(), testClinic, "PAC-000001", []BudgetItem{
		{Name: "Limpieza dental", Price: 50},
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, budget.TotalAmount)
	items := store.items[budget.ID]
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Nil(t, items[0].Tooth)
}

func TestCreateBudgetLineItemCountMatchesInput(t *testing.T) {
	store := newFakeBudgetStore()
	builder := NewBudgetBuilder(store)

	input := []BudgetItem{
		{Name: "Corona", Price: 400, Tooth: "11"},
		{Name: "Implante", Price: 900, Tooth: "36"},
		{Name: "Limpieza dental", Price: 50},
	}
	budget, err := builder.CreateBudget(context.Background(), testClinic, "PAC-000001", input)
	require.NoError(t, err)

	items := store.items[budget.ID]
	require.Len(t, items, len(input))
	for _, item := range items {
		assert.Equal(t, budget.ID, item.BudgetID)
		assert.NotEmpty(t, item.ID)
	}
	require.NotNil(t, items[0].Tooth)
	assert.Equal(t, "11", *items[0].Tooth)
}

func TestCreateBudgetRejectsEmptyItemList(t *testing.T) {
	builder := NewBudgetBuilder(newFakeBudgetStore())

	_, err := builder.CreateBudget(context.Background(), testClinic, "PAC-000001", nil)
	assert.Error(t, err)
}

func TestCreateBudgetPropagatesStoreFailure(t *testing.T) {
	store := newFakeBudgetStore()
	store.createErr = errors.New("insert failed")
	builder := NewBudgetBuilder(store)

	_, err := builder.CreateBudget(context.Background(), testClinic, "PAC-000001", []BudgetItem{
		{Name: "Corona", Price: 400},
	})
	assert.Error(t, err)
	assert.Empty(t, store.budgets)
}
