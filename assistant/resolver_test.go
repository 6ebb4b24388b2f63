package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ControlMed/models"
)

const testClinic = "clinic-1"

func testPatients() []models.Patient {
	return []models.Patient{
		{ID: "PAC-000002", ClinicID: testClinic, Name: "Maria Garcia", AssignedDoctorID: "DR-000001"},
		{ID: "PAC-000001", ClinicID: testClinic, Name: "Mario Garcia Lopez", AssignedDoctorID: "DR-000002"},
		{ID: "PAC-000003", ClinicID: testClinic, Name: "Ana Torres"},
		{ID: "PAC-000009", ClinicID: "clinic-2", Name: "Maria Garcia"},
	}
}

func TestResolveCaseInsensitiveSubstring(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	patient, err := resolver.Resolve(context.Background(), testClinic, "torres", Caller{Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", patient.Name)
}

func TestResolveTieBreakIsLowestID(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	// Both "Maria Garcia" and "Mario Garcia Lopez" contain "garcia"; the
	// lowest patient id wins, deterministically.
	patient, err := resolver.Resolve(context.Background(), testClinic, "Garcia", Caller{Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "PAC-000001", patient.ID)
}

func TestResolveNotFoundCarriesSearchText(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	_, err := resolver.Resolve(context.Background(), testClinic, "Pedro", Caller{Role: RoleAdmin})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Pedro", notFound.Search)
}

func TestResolveScopedToClinic(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	_, err := resolver.Resolve(context.Background(), "clinic-3", "Maria", Caller{Role: RoleAdmin})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolveDoctorMismatchIsForbidden(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	caller := Caller{Role: RoleDoctor, DoctorID: "DR-000002"}
	_, err := resolver.Resolve(context.Background(), testClinic, "Maria Garcia", caller)
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "PAC-000002", forbidden.PatientID)
}

func TestResolveAssignedDoctorPasses(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	caller := Caller{Role: RoleDoctor, DoctorID: "DR-000001"}
	patient, err := resolver.Resolve(context.Background(), testClinic, "Maria Garcia", caller)
	require.NoError(t, err)
	assert.Equal(t, "PAC-000002", patient.ID)
}

func TestResolveUnassignedPatientVisibleToAnyDoctor(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	caller := Caller{Role: RoleDoctor, DoctorID: "DR-000009"}
	patient, err := resolver.Resolve(context.Background(), testClinic, "Ana", caller)
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", patient.Name)
}

func TestResolveNonDoctorRolesSkipAssignmentCheck(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	for _, role := range []string{RoleAdmin, RoleReception, ""} {
		_, err := resolver.Resolve(context.Background(), testClinic, "Maria Garcia", Caller{Role: role})
		assert.NoError(t, err, "role %q should pass", role)
	}
}

func TestResolveEmptyPatternIsNotFound(t *testing.T) {
	resolver := NewPatientResolver(&fakePatientStore{patients: testPatients()}, nil)

	_, err := resolver.Resolve(context.Background(), testClinic, "   ", Caller{Role: RoleAdmin})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
