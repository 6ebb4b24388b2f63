package assistant

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ControlMed/models"
)

// AppointmentStatusScheduled is the initial status of every appointment the
// assistant creates. No conflict or double-booking check happens here.
const AppointmentStatusScheduled = "Scheduled"

// DoctorPolicy picks the doctor for a new appointment. It is injected so the
// naive default below can be swapped for load-balanced assignment without
// touching the scheduler.
type DoctorPolicy func(ctx context.Context, clinicID string, caller Caller) (string, error)

// FirstDoctorPolicy uses the caller's own doctor id when present, otherwise
// the clinic's first doctor by id. Arbitrary but deterministic.
func FirstDoctorPolicy(doctors DoctorStore) DoctorPolicy {
	return func(ctx context.Context, clinicID string, caller Caller) (string, error) {
		if caller.DoctorID != "" {
			return caller.DoctorID, nil
		}
		doctor, err := doctors.First(ctx, clinicID)
		if err != nil {
			return "", fmt.Errorf("failed to look up default doctor: %w", err)
		}
		if doctor == nil {
			return "", fmt.Errorf("no doctors registered in the clinic")
		}
		return doctor.ID, nil
	}
}

// Scheduler inserts scheduled appointment rows.
type Scheduler struct {
	store      AppointmentStore
	pickDoctor DoctorPolicy
}

func NewScheduler(store AppointmentStore, pickDoctor DoctorPolicy) *Scheduler {
	return &Scheduler{store: store, pickDoctor: pickDoctor}
}

// Schedule resolves the doctor via the injected policy and creates one
// appointment with status Scheduled.
func (s *Scheduler) Schedule(ctx context.Context, clinicID, patientID, date, timeOfDay, treatmentType string, caller Caller) (*models.Appointment, error) {
	doctorID, err := s.pickDoctor(ctx, clinicID, caller)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		ID:            uuid.New().String(),
		ClinicID:      clinicID,
		PatientID:     patientID,
		DoctorID:      doctorID,
		Date:          date,
		Time:          timeOfDay,
		TreatmentType: treatmentType,
		Status:        AppointmentStatusScheduled,
	}
	if err := s.store.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}
