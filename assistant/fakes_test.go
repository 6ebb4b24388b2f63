package assistant

import (
	"context"
	"sort"
	"strings"

	"ControlMed/models"
)

// In-memory store fakes shared by the package tests.

type fakePatientStore struct {
	patients []models.Patient
	err      error
}

func (f *fakePatientStore) FindByName(_ context.Context, clinicID, namePattern string) (*models.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	pattern := strings.ToLower(namePattern)
	var matches []models.Patient
	for _, patient := range f.patients {
		if patient.ClinicID != clinicID {
			continue
		}
		if strings.Contains(strings.ToLower(patient.Name), pattern) {
			matches = append(matches, patient)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return &matches[0], nil
}

type fakeDoctorStore struct {
	doctors []models.Doctor
	err     error
}

func (f *fakeDoctorStore) First(_ context.Context, clinicID string) (*models.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	var first *models.Doctor
	for i := range f.doctors {
		if f.doctors[i].ClinicID != clinicID {
			continue
		}
		if first == nil || f.doctors[i].ID < first.ID {
			first = &f.doctors[i]
		}
	}
	return first, nil
}

type fakeOdontogramStore struct {
	states  map[string]OdontogramState
	loadErr error
	saveErr error
	saves   int
}

func newFakeOdontogramStore() *fakeOdontogramStore {
	return &fakeOdontogramStore{states: make(map[string]OdontogramState)}
}

func copyTeeth(teeth map[string]ToothEntry) map[string]ToothEntry {
	out := make(map[string]ToothEntry, len(teeth))
	for tooth, entry := range teeth {
		out[tooth] = entry
	}
	return out
}

func (f *fakeOdontogramStore) Load(_ context.Context, _, patientID string) (OdontogramState, error) {
	if f.loadErr != nil {
		return OdontogramState{}, f.loadErr
	}
	state, ok := f.states[patientID]
	if !ok {
		return OdontogramState{Teeth: make(map[string]ToothEntry)}, nil
	}
	return OdontogramState{Exists: true, Version: state.Version, Teeth: copyTeeth(state.Teeth)}, nil
}

func (f *fakeOdontogramStore) Save(_ context.Context, _, patientID string, teeth map[string]ToothEntry, expectedVersion *int) (OdontogramState, error) {
	if f.saveErr != nil {
		return OdontogramState{}, f.saveErr
	}
	current := f.states[patientID]
	if expectedVersion != nil && current.Version != *expectedVersion {
		return OdontogramState{}, &VersionConflictError{Expected: *expectedVersion, Actual: current.Version}
	}
	next := OdontogramState{Exists: true, Version: current.Version + 1, Teeth: copyTeeth(teeth)}
	f.states[patientID] = next
	f.saves++
	return next, nil
}

type fakeBudgetStore struct {
	budgets   []models.Budget
	items     map[string][]models.BudgetLineItem
	createErr error
}

func newFakeBudgetStore() *fakeBudgetStore {
	return &fakeBudgetStore{items: make(map[string][]models.BudgetLineItem)}
}

func (f *fakeBudgetStore) Create(_ context.Context, budget *models.Budget, items []models.BudgetLineItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.budgets = append(f.budgets, *budget)
	f.items[budget.ID] = items
	return nil
}

func (f *fakeBudgetStore) RecentByPatient(_ context.Context, clinicID, patientID string, limit int) ([]models.Budget, error) {
	var out []models.Budget
	for _, budget := range f.budgets {
		if budget.ClinicID == clinicID && budget.PatientID == patientID {
			out = append(out, budget)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRecordStore struct {
	records   []models.ClinicalRecord
	appendErr error
}

func (f *fakeRecordStore) Append(_ context.Context, record *models.ClinicalRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeRecordStore) RecentByPatient(_ context.Context, clinicID, patientID string, limit int) ([]models.ClinicalRecord, error) {
	var out []models.ClinicalRecord
	for _, record := range f.records {
		if record.ClinicID == clinicID && record.PatientID == patientID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAppointmentStore struct {
	appointments []models.Appointment
	createErr    error
}

func (f *fakeAppointmentStore) Create(_ context.Context, appointment *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.appointments = append(f.appointments, *appointment)
	return nil
}

// testEnv bundles a dispatcher wired to fakes.
type testEnv struct {
	patients     *fakePatientStore
	doctors      *fakeDoctorStore
	odontograms  *fakeOdontogramStore
	budgets      *fakeBudgetStore
	records      *fakeRecordStore
	appointments *fakeAppointmentStore
	dispatcher   *Dispatcher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		patients:     &fakePatientStore{},
		doctors:      &fakeDoctorStore{},
		odontograms:  newFakeOdontogramStore(),
		budgets:      newFakeBudgetStore(),
		records:      &fakeRecordStore{},
		appointments: &fakeAppointmentStore{},
	}
	catalog := NewCatalog()
	resolver := NewPatientResolver(env.patients, DoctorAssignmentPolicy)
	env.dispatcher = NewDispatcher(
		catalog,
		resolver,
		NewOdontogramManager(env.odontograms),
		NewBudgetBuilder(env.budgets),
		NewRecordWriter(env.records),
		NewScheduler(env.appointments, FirstDoctorPolicy(env.doctors)),
		NewSummaryReader(env.records, env.odontograms, env.budgets),
	)
	return env
}
