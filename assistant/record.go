package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ControlMed/models"
)

// DefaultSpecialization is stored when the caller does not name one.
const DefaultSpecialization = "General"

// RecordPayload is the structured text stored inside a clinical record, so
// downstream readers can extract the observation without re-parsing prose.
type RecordPayload struct {
	Treatment      string `json:"treatment"`
	Observation    string `json:"observation"`
	Specialization string `json:"specialization"`
}

// RecordWriter appends entries to a patient's clinical timeline.
type RecordWriter struct {
	store RecordStore
	now   func() time.Time
}

func NewRecordWriter(store RecordStore) *RecordWriter {
	return &RecordWriter{store: store, now: time.Now}
}

// AddRecord appends one clinical record. Specialization defaults to General
// and the author defaults to the AI agent sentinel when the caller identity
// carries no user id.
func (w *RecordWriter) AddRecord(ctx context.Context, clinicID, patientID string, payload RecordPayload, authorID string) (*models.ClinicalRecord, error) {
	if payload.Specialization == "" {
		payload.Specialization = DefaultSpecialization
	}
	if authorID == "" {
		authorID = AgentAuthorID
	}

	text, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record payload: %w", err)
	}

	record := &models.ClinicalRecord{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		PatientID: patientID,
		Date:      w.now(),
		Text:      string(text),
		AuthorID:  authorID,
	}
	if err := w.store.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append clinical record: %w", err)
	}
	return record, nil
}

// DecodeRecordPayload reads the structured payload back out of a stored
// record. Historical records may hold plain prose instead of JSON; those are
// surfaced as a bare observation rather than an error.
func DecodeRecordPayload(text string) RecordPayload {
	var payload RecordPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil || payload == (RecordPayload{}) {
		return RecordPayload{Observation: text}
	}
	return payload
}
