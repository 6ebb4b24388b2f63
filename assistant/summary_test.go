package assistant

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ControlMed/models"
)

func recordText(t *testing.T, payload RecordPayload) string {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(raw)
}

func TestSummaryOmitsEmptySections(t *testing.T) {
	env := newTestEnv()
	patient := &models.Patient{ID: "PAC-000001", ClinicID: testClinic, Name: "Maria Garcia", DNI: "12345678A"}
	// Odontogram exists but every tooth is healthy; no records, no budgets.
	env.odontograms.states["PAC-000001"] = OdontogramState{
		Exists:  true,
		Version: 1,
		Teeth:   map[string]ToothEntry{"18": {Status: "HEALTHY"}, "21": {Status: "HEALTHY"}},
	}

	reader := NewSummaryReader(env.records, env.odontograms, env.budgets)
	digest, err := reader.Summarize(context.Background(), testClinic, patient)
	require.NoError(t, err)

	assert.Contains(t, digest, "Maria Garcia")
	assert.Contains(t, digest, "12345678A")
	assert.NotContains(t, digest, "Dientes con tratamiento")
	assert.NotContains(t, digest, "notas clínicas")
	assert.NotContains(t, digest, "Presupuestos")
}

func TestSummaryListsAffectedTeethAndRecords(t *testing.T) {
	env := newTestEnv()
	patient := &models.Patient{ID: "PAC-000001", ClinicID: testClinic, Name: "Maria Garcia", Email: "maria@example.com"}
	env.odontograms.states["PAC-000001"] = OdontogramState{
		Exists:  true,
		Version: 2,
		Teeth: map[string]ToothEntry{
			"18": {Status: "CARIES", Notes: "mesial"},
			"21": {Status: "HEALTHY"},
		},
	}
	env.records.records = []models.ClinicalRecord{
		{
			ID: "r1", ClinicID: testClinic, PatientID: "PAC-000001",
			Date: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			Text: recordText(t, RecordPayload{Treatment: "Endodoncia", Observation: "Pieza 18 tratada", Specialization: "General"}),
		},
	}

	reader := NewSummaryReader(env.records, env.odontograms, env.budgets)
	digest, err := reader.Summarize(context.Background(), testClinic, patient)
	require.NoError(t, err)

	assert.Contains(t, digest, "Dientes con tratamiento")
	assert.Contains(t, digest, "Pieza 18: CARIES (mesial)")
	assert.NotContains(t, digest, "Pieza 21")
	assert.Contains(t, digest, "Endodoncia")
	assert.Contains(t, digest, "01/08/2026")
}

func TestSummaryRecentBudgetsWithRunningTotal(t *testing.T) {
	env := newTestEnv()
	patient := &models.Patient{ID: "PAC-000001", ClinicID: testClinic, Name: "Maria Garcia"}
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []float64{100, 200, 50, 400} {
		env.budgets.budgets = append(env.budgets.budgets, models.Budget{
			ID: string(rune('a' + i)), ClinicID: testClinic, PatientID: "PAC-000001",
			Status: BudgetStatusDraft, TotalAmount: amount, Date: base.AddDate(0, 0, i),
		})
	}

	reader := NewSummaryReader(env.records, env.odontograms, env.budgets)
	digest, err := reader.Summarize(context.Background(), testClinic, patient)
	require.NoError(t, err)

	// Only the 3 most recent budgets count: 400 + 50 + 200.
	assert.Contains(t, digest, "Presupuestos recientes (3)")
	assert.Contains(t, digest, "650.00€")
}

func TestSummaryTruncatesLongObservations(t *testing.T) {
	env := newTestEnv()
	patient := &models.Patient{ID: "PAC-000001", ClinicID: testClinic, Name: "Maria Garcia"}
	long := ""
	for i := 0; i < 30; i++ {
		long += "palabra "
	}
	env.records.records = []models.ClinicalRecord{
		{
			ID: "r1", ClinicID: testClinic, PatientID: "PAC-000001",
			Date: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			Text: recordText(t, RecordPayload{Treatment: "Revisión", Observation: long}),
		},
	}

	reader := NewSummaryReader(env.records, env.odontograms, env.budgets)
	digest, err := reader.Summarize(context.Background(), testClinic, patient)
	require.NoError(t, err)
	assert.Contains(t, digest, "…")
	assert.NotContains(t, digest, long)
}

func TestSummaryToleratesProseRecords(t *testing.T) {
	env := newTestEnv()
	patient := &models.Patient{ID: "PAC-000001", ClinicID: testClinic, Name: "Maria Garcia"}
	env.records.records = []models.ClinicalRecord{
		{
			ID: "r1", ClinicID: testClinic, PatientID: "PAC-000001",
			Date: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
			Text: "nota antigua sin estructura",
		},
	}

	reader := NewSummaryReader(env.records, env.odontograms, env.budgets)
	digest, err := reader.Summarize(context.Background(), testClinic, patient)
	require.NoError(t, err)
	assert.Contains(t, digest, "nota antigua sin estructura")
}
