package assistant

import (
	"context"
	"fmt"
	"strings"

	"ControlMed/models"
)

// AuthorizationPolicy decides whether a caller may act on a resolved patient.
// It runs once per action, before any side effect. Returning a ForbiddenError
// aborts the action.
type AuthorizationPolicy func(caller Caller, patient *models.Patient) error

// DoctorAssignmentPolicy is the clinic's current coarse policy: a doctor may
// only act on patients assigned to them; every other role passes. It is
// action-agnostic, not a fine-grained ACL.
func DoctorAssignmentPolicy(caller Caller, patient *models.Patient) error {
	if caller.Role != RoleDoctor || caller.DoctorID == "" {
		return nil
	}
	if patient.AssignedDoctorID == "" {
		// Unassigned patients stay visible to every doctor.
		return nil
	}
	if patient.AssignedDoctorID != caller.DoctorID {
		return &ForbiddenError{PatientID: patient.ID}
	}
	return nil
}

// PatientResolver finds the patient an instruction refers to and enforces the
// authorization policy on the match.
type PatientResolver struct {
	patients  PatientStore
	authorize AuthorizationPolicy
}

func NewPatientResolver(patients PatientStore, authorize AuthorizationPolicy) *PatientResolver {
	if authorize == nil {
		authorize = DoctorAssignmentPolicy
	}
	return &PatientResolver{patients: patients, authorize: authorize}
}

// Resolve finds at most one patient whose name contains namePattern as a
// case-insensitive substring. The store orders candidates by id ascending, so
// repeated calls with the same data resolve the same patient.
func (r *PatientResolver) Resolve(ctx context.Context, clinicID, namePattern string, caller Caller) (*models.Patient, error) {
	pattern := strings.TrimSpace(namePattern)
	if pattern == "" {
		return nil, &NotFoundError{Search: namePattern}
	}

	patient, err := r.patients.FindByName(ctx, clinicID, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search patient: %w", err)
	}
	if patient == nil {
		return nil, &NotFoundError{Search: pattern}
	}

	if err := r.authorize(caller, patient); err != nil {
		return nil, err
	}
	return patient, nil
}
