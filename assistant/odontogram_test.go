package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyToothUpdatesCreatesMapLazily(t *testing.T) {
	store := newFakeOdontogramStore()
	manager := NewOdontogramManager(store)

	before := time.Now()
	state, err := manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001", []ToothUpdate{
		{Tooth: "18", Status: "CARIES", Notes: "mesial"},
		{Tooth: "21", Status: "FILLING"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, state.Exists)
	assert.Len(t, state.Teeth, 2)
	entry := state.Teeth["18"]
	assert.Equal(t, "CARIES", entry.Status)
	assert.Equal(t, "mesial", entry.Notes)
	assert.False(t, entry.UpdatedAt.Before(before))
}

func TestApplyToothUpdatesIsIdempotentPerTooth(t *testing.T) {
	store := newFakeOdontogramStore()
	manager := NewOdontogramManager(store)
	manager.now = func() time.Time { return time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC) }

	batch := []ToothUpdate{{Tooth: "18", Status: "CROWN"}, {Tooth: "36", Status: "IMPLANT"}}
	first, err := manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001", batch, nil)
	require.NoError(t, err)
	second, err := manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001", batch, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Teeth, second.Teeth)
}

func TestApplyToothUpdatesReplacesNotMerges(t *testing.T) {
	store := newFakeOdontogramStore()
	manager := NewOdontogramManager(store)

	_, err := manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001",
		[]ToothUpdate{{Tooth: "18", Status: "CARIES", Notes: "distal"}}, nil)
	require.NoError(t, err)

	// A second update for the same tooth without notes must clear them.
	state, err := manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001",
		[]ToothUpdate{{Tooth: "18", Status: "FILLING"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "FILLING", state.Teeth["18"].Status)
	assert.Equal(t, "", state.Teeth["18"].Notes)
}

func TestApplyToothUpdatesKeepsOtherTeeth(t *testing.T) {
	store := newFakeOdontogramStore()
	manager := NewOdontogramManager(store)

	_, err := manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001",
		[]ToothUpdate{{Tooth: "18", Status: "CARIES"}}, nil)
	require.NoError(t, err)
	state, err := manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001",
		[]ToothUpdate{{Tooth: "21", Status: "CROWN"}}, nil)
	require.NoError(t, err)

	assert.Len(t, state.Teeth, 2)
	assert.Equal(t, "CARIES", state.Teeth["18"].Status)
}

func TestApplyToothUpdatesVersionCheckOptIn(t *testing.T) {
	store := newFakeOdontogramStore()
	manager := NewOdontogramManager(store)

	first, err := manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001",
		[]ToothUpdate{{Tooth: "18", Status: "CARIES"}}, nil)
	require.NoError(t, err)

	stale := first.Version - 1
	_, err = manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001",
		[]ToothUpdate{{Tooth: "21", Status: "CROWN"}}, &stale)
	var conflict *VersionConflictError
	require.ErrorAs(t, err, &conflict)

	// Without a version the write is last-write-wins and always lands.
	_, err = manager.ApplyToothUpdates(context.Background(), testClinic, "PAC-000001",
		[]ToothUpdate{{Tooth: "21", Status: "CROWN"}}, nil)
	assert.NoError(t, err)
}

func TestAffectedTeethSkipsHealthy(t *testing.T) {
	state := OdontogramState{
		Exists: true,
		Teeth: map[string]ToothEntry{
			"18": {Status: "HEALTHY"},
			"36": {Status: "IMPLANT"},
			"21": {Status: "CARIES"},
			"11": {Status: ""},
		},
	}

	assert.Equal(t, []string{"21", "36"}, AffectedTeeth(state))
}

func TestAffectedTeethEmptyState(t *testing.T) {
	assert.Empty(t, AffectedTeeth(OdontogramState{}))
}
