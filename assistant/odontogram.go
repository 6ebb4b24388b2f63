package assistant

import (
	"context"
	"fmt"
	"time"
)

// ToothUpdate replaces the entry at one tooth key.
type ToothUpdate struct {
	Tooth  string
	Status string
	Notes  string
}

// OdontogramManager mutates per-patient tooth state. Each batch of updates is
// a read of the current map, a per-tooth replacement, and one full-document
// write back. The write is last-write-wins by default; callers can pass an
// expected version to get an optimistic-concurrency check instead.
type OdontogramManager struct {
	store OdontogramStore
	now   func() time.Time
}

func NewOdontogramManager(store OdontogramStore) *OdontogramManager {
	return &OdontogramManager{store: store, now: time.Now}
}

// ApplyToothUpdates loads the patient's current tooth map (empty when no row
// exists or the stored value is unreadable), replaces each updated tooth
// entry whole, and persists the full map as a single write.
func (m *OdontogramManager) ApplyToothUpdates(ctx context.Context, clinicID, patientID string, updates []ToothUpdate, expectedVersion *int) (OdontogramState, error) {
	state, err := m.store.Load(ctx, clinicID, patientID)
	if err != nil {
		return OdontogramState{}, fmt.Errorf("failed to load odontogram: %w", err)
	}

	teeth := state.Teeth
	if teeth == nil {
		teeth = make(map[string]ToothEntry)
	}

	now := m.now()
	for _, update := range updates {
		teeth[update.Tooth] = ToothEntry{
			Status:    update.Status,
			Notes:     update.Notes,
			UpdatedAt: now,
		}
	}

	saved, err := m.store.Save(ctx, clinicID, patientID, teeth, expectedVersion)
	if err != nil {
		return OdontogramState{}, fmt.Errorf("failed to save odontogram: %w", err)
	}
	return saved, nil
}

// AffectedTeeth lists the teeth whose status is not the neutral HEALTHY
// value, in ascending tooth-number order.
func AffectedTeeth(state OdontogramState) []string {
	teeth := make([]string, 0, len(state.Teeth))
	for tooth, entry := range state.Teeth {
		if entry.Status == "HEALTHY" || entry.Status == "" {
			continue
		}
		teeth = append(teeth, tooth)
	}
	sortTeeth(teeth)
	return teeth
}

// sortTeeth orders tooth keys numerically when possible, lexically otherwise.
func sortTeeth(teeth []string) {
	for i := 1; i < len(teeth); i++ {
		for j := i; j > 0 && toothLess(teeth[j], teeth[j-1]); j-- {
			teeth[j], teeth[j-1] = teeth[j-1], teeth[j]
		}
	}
}

func toothLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
