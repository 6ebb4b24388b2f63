package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"ControlMed/models"
)

// Dispatcher routes a parsed action request to its handler and wraps every
// terminal outcome in one Response. Each invocation is independent; there is
// no shared mutable state between requests, and the writes inside one action
// run strictly in order with no cross-action transaction.
type Dispatcher struct {
	catalog     *Catalog
	resolver    *PatientResolver
	odontograms *OdontogramManager
	budgets     *BudgetBuilder
	records     *RecordWriter
	scheduler   *Scheduler
	summaries   *SummaryReader
}

func NewDispatcher(
	catalog *Catalog,
	resolver *PatientResolver,
	odontograms *OdontogramManager,
	budgets *BudgetBuilder,
	records *RecordWriter,
	scheduler *Scheduler,
	summaries *SummaryReader,
) *Dispatcher {
	return &Dispatcher{
		catalog:     catalog,
		resolver:    resolver,
		odontograms: odontograms,
		budgets:     budgets,
		records:     records,
		scheduler:   scheduler,
		summaries:   summaries,
	}
}

// ProcessQuery executes one action request on behalf of the caller and always
// returns exactly one user-facing message.
func (d *Dispatcher) ProcessQuery(ctx context.Context, clinicID string, req ActionRequest, caller Caller) Response {
	switch req.Action {
	case ActionUpdateOdontogramWithBudget:
		return d.handleOdontogramWithBudget(ctx, clinicID, req.Arguments, caller)
	case ActionUpdateOdontogram:
		return d.handleOdontogramOnly(ctx, clinicID, req.Arguments, caller)
	case ActionAddClinicalRecord:
		return d.handleAddRecord(ctx, clinicID, req.Arguments, caller)
	case ActionCreateBudget:
		return d.handleCreateBudget(ctx, clinicID, req.Arguments, caller)
	case ActionCreatePrescription:
		return d.handleCreatePrescription(ctx, clinicID, req.Arguments, caller)
	case ActionCreateAppointment:
		return d.handleCreateAppointment(ctx, clinicID, req.Arguments, caller)
	case ActionSearchPatientInfo:
		return d.handleSearchPatientInfo(ctx, clinicID, req.Arguments, caller)
	default:
		return Response{Type: ResponseError, Content: fmt.Sprintf("No reconozco la acción %q.", req.Action)}
	}
}

// resolveFailure maps resolver errors to the user-facing Spanish messages.
func resolveFailure(err error, search string) Response {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return Response{Type: ResponseError, Content: fmt.Sprintf("No encontré al paciente \"%s\".", notFound.Search)}
	}
	var forbidden *ForbiddenError
	if errors.As(err, &forbidden) {
		return Response{Type: ResponseError, Content: "No tienes permisos para actuar sobre este paciente."}
	}
	log.Printf("Patient resolution failed for %q: %v", search, err)
	return Response{Type: ResponseError, Content: "No pude buscar al paciente. Inténtalo de nuevo."}
}

func badArguments(action string, err error) Response {
	log.Printf("Malformed arguments for %s: %v", action, err)
	return Response{Type: ResponseError, Content: "No pude interpretar los datos de la petición."}
}

type treatmentInput struct {
	Tooth         ToothRef `json:"tooth"`
	TreatmentType string   `json:"treatmentType"`
	Notes         string   `json:"notes"`
}

type odontogramBudgetArgs struct {
	PatientName     string           `json:"patientName"`
	Treatments      []treatmentInput `json:"treatments"`
	CreateBudget    *bool            `json:"createBudget"`
	ExpectedVersion *int             `json:"expectedVersion"`
}

// handleOdontogramWithBudget is the composite action: odontogram write, then
// optional budget, then one clinical record summarizing the per-tooth
// changes. The steps are independent writes with no rollback; a later
// failure leaves the earlier writes committed and says so in the response.
func (d *Dispatcher) handleOdontogramWithBudget(ctx context.Context, clinicID string, raw json.RawMessage, caller Caller) Response {
	var args odontogramBudgetArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return badArguments(ActionUpdateOdontogramWithBudget, err)
	}
	if len(args.Treatments) == 0 {
		return Response{Type: ResponseError, Content: "No se indicó ningún tratamiento."}
	}

	patient, err := d.resolver.Resolve(ctx, clinicID, args.PatientName, caller)
	if err != nil {
		return resolveFailure(err, args.PatientName)
	}

	updates := make([]ToothUpdate, 0, len(args.Treatments))
	items := make([]BudgetItem, 0, len(args.Treatments))
	statusLines := make([]string, 0, len(args.Treatments))
	for _, treatment := range args.Treatments {
		entry := d.catalog.Normalize(treatment.TreatmentType)
		updates = append(updates, ToothUpdate{
			Tooth:  treatment.Tooth.String(),
			Status: entry.StatusCode,
			Notes:  treatment.Notes,
		})
		items = append(items, BudgetItem{
			Name:     entry.CanonicalName,
			Price:    entry.DefaultPrice,
			Tooth:    treatment.Tooth.String(),
			Quantity: 1,
		})
		statusLines = append(statusLines, fmt.Sprintf("- Pieza %s: %s (%s)", treatment.Tooth, entry.StatusCode, entry.CanonicalName))
	}

	if _, err := d.odontograms.ApplyToothUpdates(ctx, clinicID, patient.ID, updates, args.ExpectedVersion); err != nil {
		var conflict *VersionConflictError
		if errors.As(err, &conflict) {
			return Response{Type: ResponseError, Content: "El odontograma cambió mientras editabas. Vuelve a cargarlo e inténtalo de nuevo."}
		}
		log.Printf("Odontogram update failed for patient %s: %v", patient.ID, err)
		return Response{Type: ResponseError, Content: "No pude actualizar el odontograma."}
	}

	createBudget := args.CreateBudget == nil || *args.CreateBudget
	var budget *models.Budget
	if createBudget && len(items) > 0 {
		budget, err = d.budgets.CreateBudget(ctx, clinicID, patient.ID, items)
		if err != nil {
			// The odontogram write above already committed; surface that.
			log.Printf("Budget creation failed after odontogram update for patient %s: %v", patient.ID, err)
			return Response{Type: ResponseError, Content: "El odontograma se actualizó, pero falló la creación del presupuesto."}
		}
	}

	payload := RecordPayload{
		Treatment:   "Actualización de odontograma",
		Observation: strings.Join(statusLines, "\n"),
	}
	if _, err := d.records.AddRecord(ctx, clinicID, patient.ID, payload, caller.UserID); err != nil {
		log.Printf("Clinical record append failed after odontogram update for patient %s: %v", patient.ID, err)
		return Response{Type: ResponseError, Content: "El odontograma se actualizó, pero no pude registrar la nota en el historial."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Odontograma de %s actualizado:\n%s", patient.Name, strings.Join(statusLines, "\n"))
	if budget != nil {
		fmt.Fprintf(&b, "\n💶 Presupuesto borrador creado: %.2f€ (%d items)", budget.TotalAmount, len(budget.Items))
	}
	return Response{Type: ResponseActionCompleted, Content: b.String()}
}

type toothStatusInput struct {
	Tooth  ToothRef `json:"tooth"`
	Status string   `json:"status"`
	Notes  string   `json:"notes"`
}

type odontogramOnlyArgs struct {
	PatientName     string             `json:"patientName"`
	Teeth           []toothStatusInput `json:"teeth"`
	ExpectedVersion *int               `json:"expectedVersion"`
}

// handleOdontogramOnly applies raw tooth statuses with no budget and no
// catalog normalization. Unknown status strings are accepted verbatim.
func (d *Dispatcher) handleOdontogramOnly(ctx context.Context, clinicID string, raw json.RawMessage, caller Caller) Response {
	var args odontogramOnlyArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return badArguments(ActionUpdateOdontogram, err)
	}
	if len(args.Teeth) == 0 {
		return Response{Type: ResponseError, Content: "No se indicó ninguna pieza dental."}
	}

	patient, err := d.resolver.Resolve(ctx, clinicID, args.PatientName, caller)
	if err != nil {
		return resolveFailure(err, args.PatientName)
	}

	updates := make([]ToothUpdate, 0, len(args.Teeth))
	lines := make([]string, 0, len(args.Teeth))
	for _, tooth := range args.Teeth {
		updates = append(updates, ToothUpdate{
			Tooth:  tooth.Tooth.String(),
			Status: tooth.Status,
			Notes:  tooth.Notes,
		})
		lines = append(lines, fmt.Sprintf("- Pieza %s: %s", tooth.Tooth, tooth.Status))
	}

	if _, err := d.odontograms.ApplyToothUpdates(ctx, clinicID, patient.ID, updates, args.ExpectedVersion); err != nil {
		var conflict *VersionConflictError
		if errors.As(err, &conflict) {
			return Response{Type: ResponseError, Content: "El odontograma cambió mientras editabas. Vuelve a cargarlo e inténtalo de nuevo."}
		}
		log.Printf("Odontogram update failed for patient %s: %v", patient.ID, err)
		return Response{Type: ResponseError, Content: "No pude actualizar el odontograma."}
	}

	content := fmt.Sprintf("✅ Odontograma de %s actualizado:\n%s", patient.Name, strings.Join(lines, "\n"))
	return Response{Type: ResponseActionCompleted, Content: content}
}

type addRecordArgs struct {
	PatientName    string `json:"patientName"`
	Treatment      string `json:"treatment"`
	Observation    string `json:"observation"`
	Specialization string `json:"specialization"`
}

func (d *Dispatcher) handleAddRecord(ctx context.Context, clinicID string, raw json.RawMessage, caller Caller) Response {
	var args addRecordArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return badArguments(ActionAddClinicalRecord, err)
	}

	patient, err := d.resolver.Resolve(ctx, clinicID, args.PatientName, caller)
	if err != nil {
		return resolveFailure(err, args.PatientName)
	}

	payload := RecordPayload{
		Treatment:      args.Treatment,
		Observation:    args.Observation,
		Specialization: args.Specialization,
	}
	if _, err := d.records.AddRecord(ctx, clinicID, patient.ID, payload, caller.UserID); err != nil {
		log.Printf("Clinical record append failed for patient %s: %v", patient.ID, err)
		return Response{Type: ResponseError, Content: "No pude guardar la nota en el historial."}
	}

	content := fmt.Sprintf("✅ Nota añadida al historial de %s: \"%s\"", patient.Name, args.Treatment)
	return Response{Type: ResponseActionCompleted, Content: content}
}

type budgetItemInput struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Tooth    ToothRef `json:"tooth"`
	Quantity int      `json:"quantity"`
}

type createBudgetArgs struct {
	PatientName string            `json:"patientName"`
	Items       []budgetItemInput `json:"items"`
}

func (d *Dispatcher) handleCreateBudget(ctx context.Context, clinicID string, raw json.RawMessage, caller Caller) Response {
	var args createBudgetArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return badArguments(ActionCreateBudget, err)
	}
	if len(args.Items) == 0 {
		return Response{Type: ResponseError, Content: "No se indicó ningún tratamiento para el presupuesto."}
	}

	patient, err := d.resolver.Resolve(ctx, clinicID, args.PatientName, caller)
	if err != nil {
		return resolveFailure(err, args.PatientName)
	}

	items := make([]BudgetItem, 0, len(args.Items))
	for _, item := range args.Items {
		items = append(items, BudgetItem{
			Name:     item.Name,
			Price:    item.Price,
			Tooth:    item.Tooth.String(),
			Quantity: item.Quantity,
		})
	}

	budget, err := d.budgets.CreateBudget(ctx, clinicID, patient.ID, items)
	if err != nil {
		log.Printf("Budget creation failed for patient %s: %v", patient.ID, err)
		return Response{Type: ResponseError, Content: "No pude crear el presupuesto."}
	}

	// Shadow record so the budget shows up on the clinical timeline.
	payload := RecordPayload{
		Treatment:   "Nuevo presupuesto",
		Observation: fmt.Sprintf("Presupuesto creado con importe total: %.2f€ (%d items)", budget.TotalAmount, len(budget.Items)),
	}
	if _, err := d.records.AddRecord(ctx, clinicID, patient.ID, payload, caller.UserID); err != nil {
		log.Printf("Shadow record append failed for budget %s: %v", budget.ID, err)
		return Response{Type: ResponseError, Content: "El presupuesto se creó, pero no pude registrarlo en el historial."}
	}

	content := fmt.Sprintf("✅ Presupuesto borrador creado para %s con %d items. Total: %.2f€", patient.Name, len(budget.Items), budget.TotalAmount)
	return Response{Type: ResponseActionCompleted, Content: content}
}

type prescriptionArgs struct {
	PatientName  string `json:"patientName"`
	Medication   string `json:"medication"`
	Instructions string `json:"instructions"`
}

// handleCreatePrescription stores the prescription as a clinical record, the
// same way the clinic keeps every other timeline event.
func (d *Dispatcher) handleCreatePrescription(ctx context.Context, clinicID string, raw json.RawMessage, caller Caller) Response {
	var args prescriptionArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return badArguments(ActionCreatePrescription, err)
	}

	patient, err := d.resolver.Resolve(ctx, clinicID, args.PatientName, caller)
	if err != nil {
		return resolveFailure(err, args.PatientName)
	}

	payload := RecordPayload{
		Treatment:   "Receta",
		Observation: fmt.Sprintf("Medicamento: %s. Instrucciones: %s", args.Medication, args.Instructions),
	}
	if _, err := d.records.AddRecord(ctx, clinicID, patient.ID, payload, caller.UserID); err != nil {
		log.Printf("Prescription record failed for patient %s: %v", patient.ID, err)
		return Response{Type: ResponseError, Content: "No pude generar la receta."}
	}

	content := fmt.Sprintf("✅ Receta generada para %s: %s", patient.Name, args.Medication)
	return Response{Type: ResponseActionCompleted, Content: content}
}

type appointmentArgs struct {
	PatientName   string `json:"patientName"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	TreatmentType string `json:"treatmentType"`
}

func (d *Dispatcher) handleCreateAppointment(ctx context.Context, clinicID string, raw json.RawMessage, caller Caller) Response {
	var args appointmentArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return badArguments(ActionCreateAppointment, err)
	}
	if args.Date == "" || args.Time == "" {
		return Response{Type: ResponseError, Content: "Faltan la fecha o la hora de la cita."}
	}

	patient, err := d.resolver.Resolve(ctx, clinicID, args.PatientName, caller)
	if err != nil {
		return resolveFailure(err, args.PatientName)
	}

	appointment, err := d.scheduler.Schedule(ctx, clinicID, patient.ID, args.Date, args.Time, args.TreatmentType, caller)
	if err != nil {
		log.Printf("Appointment creation failed for patient %s: %v", patient.ID, err)
		return Response{Type: ResponseError, Content: "No pude crear la cita."}
	}

	content := fmt.Sprintf("✅ Cita creada para %s el %s a las %s", patient.Name, appointment.Date, appointment.Time)
	if appointment.TreatmentType != "" {
		content += fmt.Sprintf(" (%s)", appointment.TreatmentType)
	}
	return Response{Type: ResponseActionCompleted, Content: content}
}

type searchPatientArgs struct {
	PatientName string `json:"patientName"`
}

func (d *Dispatcher) handleSearchPatientInfo(ctx context.Context, clinicID string, raw json.RawMessage, caller Caller) Response {
	var args searchPatientArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return badArguments(ActionSearchPatientInfo, err)
	}

	patient, err := d.resolver.Resolve(ctx, clinicID, args.PatientName, caller)
	if err != nil {
		return resolveFailure(err, args.PatientName)
	}

	digest, err := d.summaries.Summarize(ctx, clinicID, patient)
	if err != nil {
		log.Printf("Summary failed for patient %s: %v", patient.ID, err)
		return Response{Type: ResponseError, Content: "No pude recuperar la información del paciente."}
	}
	return Response{Type: ResponseText, Content: digest}
}
