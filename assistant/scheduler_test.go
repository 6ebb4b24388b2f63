package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ControlMed/models"
)

func TestFirstDoctorPolicyPrefersCaller(t *testing.T) {
	doctors := &fakeDoctorStore{doctors: []models.Doctor{{ID: "DR-000001", ClinicID: testClinic}}}
	policy := FirstDoctorPolicy(doctors)

	doctorID, err := policy(context.Background(), testClinic, Caller{Role: RoleDoctor, DoctorID: "DR-000007"})
	require.NoError(t, err)
	assert.Equal(t, "DR-000007", doctorID)
}

func TestFirstDoctorPolicyFallsBackToFirstByID(t *testing.T) {
	doctors := &fakeDoctorStore{doctors: []models.Doctor{
		{ID: "DR-000002", ClinicID: testClinic},
		{ID: "DR-000001", ClinicID: testClinic},
		{ID: "DR-000000", ClinicID: "clinic-2"},
	}}
	policy := FirstDoctorPolicy(doctors)

	doctorID, err := policy(context.Background(), testClinic, Caller{Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "DR-000001", doctorID)
}

func TestFirstDoctorPolicyEmptyClinicFails(t *testing.T) {
	policy := FirstDoctorPolicy(&fakeDoctorStore{})

	_, err := policy(context.Background(), testClinic, Caller{Role: RoleAdmin})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no doctors")
}

func TestScheduleCreatesScheduledAppointment(t *testing.T) {
	store := &fakeAppointmentStore{}
	doctors := &fakeDoctorStore{doctors: []models.Doctor{{ID: "DR-000001", ClinicID: testClinic}}}
	scheduler := NewScheduler(store, FirstDoctorPolicy(doctors))

	appointment, err := scheduler.Schedule(context.Background(), testClinic, "PAC-000001", "2026-09-01", "10:00", "Revisión", Caller{Role: RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, AppointmentStatusScheduled, appointment.Status)
	assert.Equal(t, "DR-000001", appointment.DoctorID)
	assert.NotEmpty(t, appointment.ID)
	require.Len(t, store.appointments, 1)
}

func TestSchedulePolicyFailureCreatesNothing(t *testing.T) {
	store := &fakeAppointmentStore{}
	scheduler := NewScheduler(store, FirstDoctorPolicy(&fakeDoctorStore{}))

	_, err := scheduler.Schedule(context.Background(), testClinic, "PAC-000001", "2026-09-01", "10:00", "", Caller{Role: RoleAdmin})
	assert.Error(t, err)
	assert.Empty(t, store.appointments)
}
