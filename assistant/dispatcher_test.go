package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ControlMed/models"
)

func request(t *testing.T, action string, args any) ActionRequest {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return ActionRequest{Action: action, Arguments: raw}
}

func adminCaller() Caller {
	return Caller{UserID: "7", Role: RoleAdmin}
}

func seedMaria(env *testEnv) {
	env.patients.patients = []models.Patient{
		{ID: "PAC-000001", ClinicID: testClinic, Name: "Maria Garcia", AssignedDoctorID: "DR-000001"},
	}
	env.doctors.doctors = []models.Doctor{
		{ID: "DR-000001", ClinicID: testClinic, Name: "Dr. Roy"},
	}
}

func TestCompositeActionOdontogramBudgetRecord(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionUpdateOdontogramWithBudget, map[string]any{
		"patientName": "Maria Garcia",
		"treatments":  []map[string]any{{"tooth": 18, "treatmentType": "limpieza"}},
	}), adminCaller())

	require.Equal(t, ResponseActionCompleted, resp.Type, resp.Content)

	// Odontogram created lazily with the catalog's status for "limpieza".
	state := env.odontograms.states["PAC-000001"]
	require.True(t, state.Exists)
	assert.Equal(t, "HEALTHY", state.Teeth["18"].Status)

	// Exactly one DRAFT budget at the catalog default price.
	require.Len(t, env.budgets.budgets, 1)
	budget := env.budgets.budgets[0]
	assert.Equal(t, BudgetStatusDraft, budget.Status)
	assert.Equal(t, 50.0, budget.TotalAmount)
	assert.Len(t, env.budgets.items[budget.ID], 1)

	// Exactly one clinical record appended.
	require.Len(t, env.records.records, 1)
	assert.Equal(t, "PAC-000001", env.records.records[0].PatientID)

	assert.Contains(t, resp.Content, "Pieza 18")
	assert.Contains(t, resp.Content, "Presupuesto")
}

func TestCompositeActionWithoutBudget(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionUpdateOdontogramWithBudget, map[string]any{
		"patientName":  "maria",
		"treatments":   []map[string]any{{"tooth": "18", "treatmentType": "limpieza"}},
		"createBudget": false,
	}), adminCaller())

	require.Equal(t, ResponseActionCompleted, resp.Type, resp.Content)
	assert.Empty(t, env.budgets.budgets)
	assert.Len(t, env.records.records, 1)
	assert.True(t, env.odontograms.states["PAC-000001"].Exists)
	assert.NotContains(t, resp.Content, "Presupuesto")
}

func TestCompositeActionPartialFailureKeepsOdontogramWrite(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)
	env.budgets.createErr = errors.New("insert failed")

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionUpdateOdontogramWithBudget, map[string]any{
		"patientName": "Maria",
		"treatments":  []map[string]any{{"tooth": 18, "treatmentType": "endodoncia"}},
	}), adminCaller())

	// The budget step failed after the odontogram write; nothing is rolled
	// back and the message says so.
	require.Equal(t, ResponseError, resp.Type)
	assert.Contains(t, resp.Content, "odontograma se actualizó")
	assert.True(t, env.odontograms.states["PAC-000001"].Exists)
	assert.Equal(t, "ENDODONTICS", env.odontograms.states["PAC-000001"].Teeth["18"].Status)
	assert.Empty(t, env.records.records)
}

func TestForbiddenDoctorNeverMutates(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)
	caller := Caller{UserID: "3", Role: RoleDoctor, DoctorID: "DR-000099"}

	actions := []ActionRequest{
		request(t, ActionUpdateOdontogramWithBudget, map[string]any{
			"patientName": "Maria",
			"treatments":  []map[string]any{{"tooth": 18, "treatmentType": "limpieza"}},
		}),
		request(t, ActionUpdateOdontogram, map[string]any{
			"patientName": "Maria",
			"teeth":       []map[string]any{{"tooth": 18, "status": "CARIES"}},
		}),
		request(t, ActionAddClinicalRecord, map[string]any{
			"patientName": "Maria", "treatment": "Revisión", "observation": "ok",
		}),
		request(t, ActionCreateBudget, map[string]any{
			"patientName": "Maria", "items": []map[string]any{{"name": "Corona", "price": 400}},
		}),
		request(t, ActionCreatePrescription, map[string]any{
			"patientName": "Maria", "medication": "Ibuprofeno", "instructions": "cada 8h",
		}),
		request(t, ActionCreateAppointment, map[string]any{
			"patientName": "Maria", "date": "2026-09-01", "time": "10:00",
		}),
		request(t, ActionSearchPatientInfo, map[string]any{"patientName": "Maria"}),
	}

	for _, action := range actions {
		resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, action, caller)
		assert.Equal(t, ResponseError, resp.Type, action.Action)
		assert.Contains(t, resp.Content, "permisos", action.Action)
	}
	assert.Equal(t, 0, env.odontograms.saves)
	assert.Empty(t, env.budgets.budgets)
	assert.Empty(t, env.records.records)
	assert.Empty(t, env.appointments.appointments)
}

func TestNotFoundQuotesSearchText(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionSearchPatientInfo, map[string]any{
		"patientName": "Pedro Ruiz",
	}), adminCaller())

	assert.Equal(t, ResponseError, resp.Type)
	assert.Contains(t, resp.Content, `"Pedro Ruiz"`)
}

func TestUpdateOdontogramOnlyAcceptsVerbatimStatus(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionUpdateOdontogram, map[string]any{
		"patientName": "Maria",
		"teeth": []map[string]any{
			{"tooth": 18, "status": "CARIES"},
			{"tooth": "47", "status": "FISURA_VERTICAL"},
		},
	}), adminCaller())

	require.Equal(t, ResponseActionCompleted, resp.Type, resp.Content)
	state := env.odontograms.states["PAC-000001"]
	assert.Equal(t, "CARIES", state.Teeth["18"].Status)
	// Unknown status strings pass through as an escape hatch.
	assert.Equal(t, "FISURA_VERTICAL", state.Teeth["47"].Status)
	assert.Empty(t, env.budgets.budgets)
	assert.Empty(t, env.records.records)
}

func TestAddClinicalRecordDefaultsSpecialization(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionAddClinicalRecord, map[string]any{
		"patientName": "Maria",
		"treatment":   "Revisión anual",
		"observation": "Sin hallazgos",
	}), Caller{Role: RoleReception})

	require.Equal(t, ResponseActionCompleted, resp.Type, resp.Content)
	require.Len(t, env.records.records, 1)
	payload := DecodeRecordPayload(env.records.records[0].Text)
	assert.Equal(t, "Revisión anual", payload.Treatment)
	assert.Equal(t, DefaultSpecialization, payload.Specialization)
	// Caller with no user id is recorded as the AI agent.
	assert.Equal(t, AgentAuthorID, env.records.records[0].AuthorID)
}

func TestCreateBudgetActionWritesShadowRecord(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionCreateBudget, map[string]any{
		"patientName": "Maria",
		"items": []map[string]any{
			{"name": "Corona", "price": 400, "tooth": "11"},
			{"name": "Limpieza", "price": 50, "quantity": 2},
		},
	}), adminCaller())

	require.Equal(t, ResponseActionCompleted, resp.Type, resp.Content)
	require.Len(t, env.budgets.budgets, 1)
	assert.Equal(t, 500.0, env.budgets.budgets[0].TotalAmount)
	require.Len(t, env.records.records, 1)
	payload := DecodeRecordPayload(env.records.records[0].Text)
	assert.Equal(t, "Nuevo presupuesto", payload.Treatment)
	assert.Contains(t, resp.Content, "500.00€")
}

func TestCreatePrescriptionAppendsRecord(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionCreatePrescription, map[string]any{
		"patientName":  "Maria",
		"medication":   "Amoxicilina 500mg",
		"instructions": "1 cada 8 horas durante 7 días",
	}), adminCaller())

	require.Equal(t, ResponseActionCompleted, resp.Type, resp.Content)
	require.Len(t, env.records.records, 1)
	payload := DecodeRecordPayload(env.records.records[0].Text)
	assert.Equal(t, "Receta", payload.Treatment)
	assert.Contains(t, payload.Observation, "Amoxicilina 500mg")
	assert.Contains(t, resp.Content, "Amoxicilina 500mg")
}

func TestCreateAppointmentUsesDefaultDoctor(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionCreateAppointment, map[string]any{
		"patientName":   "Maria",
		"date":          "2026-09-01",
		"time":          "10:30",
		"treatmentType": "limpieza",
	}), Caller{UserID: "4", Role: RoleReception})

	require.Equal(t, ResponseActionCompleted, resp.Type, resp.Content)
	require.Len(t, env.appointments.appointments, 1)
	appointment := env.appointments.appointments[0]
	assert.Equal(t, "DR-000001", appointment.DoctorID)
	assert.Equal(t, AppointmentStatusScheduled, appointment.Status)
	assert.Equal(t, "2026-09-01", appointment.Date)
}

func TestCreateAppointmentPrefersCallerDoctor(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	caller := Caller{UserID: "2", Role: RoleDoctor, DoctorID: "DR-000001"}
	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, request(t, ActionCreateAppointment, map[string]any{
		"patientName": "Maria",
		"date":        "2026-09-02",
		"time":        "09:00",
	}), caller)

	require.Equal(t, ResponseActionCompleted, resp.Type, resp.Content)
	require.Len(t, env.appointments.appointments, 1)
	assert.Equal(t, "DR-000001", env.appointments.appointments[0].DoctorID)
}

func TestUnknownActionIsRejected(t *testing.T) {
	env := newTestEnv()

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, ActionRequest{
		Action:    "drop_all_tables",
		Arguments: json.RawMessage(`{}`),
	}, adminCaller())

	assert.Equal(t, ResponseError, resp.Type)
}

func TestMalformedArgumentsAreRejected(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, ActionRequest{
		Action:    ActionCreateBudget,
		Arguments: json.RawMessage(`{"items": "not-a-list"`),
	}, adminCaller())

	assert.Equal(t, ResponseError, resp.Type)
	assert.Empty(t, env.budgets.budgets)
}

func TestEveryOutcomeHasContent(t *testing.T) {
	env := newTestEnv()
	seedMaria(env)

	requests := []ActionRequest{
		request(t, ActionSearchPatientInfo, map[string]any{"patientName": "Maria"}),
		request(t, ActionSearchPatientInfo, map[string]any{"patientName": "Nadie"}),
		{Action: "unknown", Arguments: json.RawMessage(`{}`)},
	}
	for _, req := range requests {
		resp := env.dispatcher.ProcessQuery(context.Background(), testClinic, req, adminCaller())
		assert.NotEmpty(t, resp.Content)
	}
}
