package assistant

import (
	"context"

	"ControlMed/models"
)

// The assistant never talks to gorm directly: it consumes the data store
// through these narrow, table-scoped interfaces. The repositories package
// provides the real implementations; tests substitute in-memory fakes.

// PatientStore resolves patients. FindByName returns the first patient whose
// name contains the pattern case-insensitively, ordered by id ascending so
// the tie-break is deterministic; nil when nothing matches.
type PatientStore interface {
	FindByName(ctx context.Context, clinicID, namePattern string) (*models.Patient, error)
}

// DoctorStore supplies doctors for the default-doctor scheduling policy.
// First returns the doctor with the lowest id in the clinic, nil when the
// clinic has none.
type DoctorStore interface {
	First(ctx context.Context, clinicID string) (*models.Doctor, error)
}

// OdontogramStore loads and replaces the per-patient tooth map as a whole
// document. Save inserts when no row exists and fully overwrites otherwise;
// when expectedVersion is non-nil the write must fail with a
// VersionConflictError if the stored version differs.
type OdontogramStore interface {
	Load(ctx context.Context, clinicID, patientID string) (OdontogramState, error)
	Save(ctx context.Context, clinicID, patientID string, teeth map[string]ToothEntry, expectedVersion *int) (OdontogramState, error)
}

// BudgetStore persists a budget header with its line items in one call and
// reads back the most recent budgets for a patient.
type BudgetStore interface {
	Create(ctx context.Context, budget *models.Budget, items []models.BudgetLineItem) error
	RecentByPatient(ctx context.Context, clinicID, patientID string, limit int) ([]models.Budget, error)
}

// RecordStore appends to the patient's clinical timeline. Records are never
// updated or deleted from here.
type RecordStore interface {
	Append(ctx context.Context, record *models.ClinicalRecord) error
	RecentByPatient(ctx context.Context, clinicID, patientID string, limit int) ([]models.ClinicalRecord, error)
}

// AppointmentStore inserts scheduled appointments.
type AppointmentStore interface {
	Create(ctx context.Context, appointment *models.Appointment) error
}
