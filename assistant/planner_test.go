package assistant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlannedActionPlainJSON(t *testing.T) {
	planned, err := ParsePlannedAction(`{"action":"search_patient_info","arguments":{"patientName":"Maria"},"answer":"Buscando"}`)
	require.NoError(t, err)

	assert.True(t, planned.IsAction())
	assert.Equal(t, ActionSearchPatientInfo, planned.Action)
	var args struct {
		PatientName string `json:"patientName"`
	}
	require.NoError(t, json.Unmarshal(planned.Arguments, &args))
	assert.Equal(t, "Maria", args.PatientName)
}

func TestParsePlannedActionStripsCodeFences(t *testing.T) {
	reply := "```json\n{\"action\":\"create_appointment\",\"arguments\":{\"patientName\":\"Ana\",\"date\":\"2026-09-01\",\"time\":\"10:00\"}}\n```"
	planned, err := ParsePlannedAction(reply)
	require.NoError(t, err)
	assert.Equal(t, ActionCreateAppointment, planned.Action)
}

func TestParsePlannedActionNoneIsPlainAnswer(t *testing.T) {
	planned, err := ParsePlannedAction(`{"action":"none","answer":"La clínica abre a las 9."}`)
	require.NoError(t, err)

	assert.False(t, planned.IsAction())
	assert.Equal(t, "La clínica abre a las 9.", planned.Answer)
}

func TestParsePlannedActionNonJSONDegradesToText(t *testing.T) {
	planned, err := ParsePlannedAction("Lo siento, no puedo hacer eso.")
	require.NoError(t, err)

	assert.False(t, planned.IsAction())
	assert.Equal(t, "Lo siento, no puedo hacer eso.", planned.Answer)
}

func TestParsePlannedActionEmptyReplyIsError(t *testing.T) {
	_, err := ParsePlannedAction("   \n```\n```\n")
	assert.Error(t, err)
}
