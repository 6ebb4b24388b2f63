package assistant

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRecordDefaultsSpecializationAndAuthor(t *testing.T) {
	store := &fakeRecordStore{}
	writer := NewRecordWriter(store)
	writer.now = func() time.Time { return time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC) }

	record, err := writer.AddRecord(context.Background(), "clinic-1", "PAC-00000001", RecordPayload{
		Treatment:   "Empaste",
		Observation: "Pieza 18 tratada",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, AgentAuthorID, record.AuthorID)
	assert.Equal(t, "clinic-1", record.ClinicID)
	assert.Equal(t, "PAC-00000001", record.PatientID)

	var payload RecordPayload
	require.NoError(t, json.Unmarshal([]byte(record.Text), &payload))
	assert.Equal(t, DefaultSpecialization, payload.Specialization)
	assert.Equal(t, "Empaste", payload.Treatment)

	require.Len(t, store.records, 1)
}

func TestAddRecordKeepsCallerAuthor(t *testing.T) {
	store := &fakeRecordStore{}
	writer := NewRecordWriter(store)

	record, err := writer.AddRecord(context.Background(), "clinic-1", "PAC-00000001", RecordPayload{
		Observation:    "Revisión anual",
		Specialization: "Ortodoncia",
	}, "user-42")
	require.NoError(t, err)

	assert.Equal(t, "user-42", record.AuthorID)

	payload := DecodeRecordPayload(record.Text)
	assert.Equal(t, "Ortodoncia", payload.Specialization)
}

func TestDecodeRecordPayloadFallsBackToProse(t *testing.T) {
	payload := DecodeRecordPayload("nota manuscrita sin estructura")
	assert.Equal(t, "nota manuscrita sin estructura", payload.Observation)
	assert.Empty(t, payload.Treatment)
}
