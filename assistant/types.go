package assistant

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Caller identifies who is asking the assistant to act. It is produced by the
// auth layer (PASETO claims) and passed through every action.
type Caller struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	DoctorID string `json:"doctorId"`
}

// Roles recognized by the authorization policy.
const (
	RoleAdmin     = "ADMIN"
	RoleDoctor    = "DOCTOR"
	RoleReception = "RECEPTION"
)

// AgentAuthorID marks clinical records written by the assistant itself,
// distinguishing them from human-authored entries in the timeline.
const AgentAuthorID = "AI_AGENT"

// Action names accepted by the dispatcher.
const (
	ActionUpdateOdontogramWithBudget = "update_odontogram_with_budget"
	ActionUpdateOdontogram           = "update_odontogram"
	ActionAddClinicalRecord          = "add_clinical_record"
	ActionCreateBudget               = "create_budget"
	ActionCreatePrescription         = "create_prescription"
	ActionCreateAppointment          = "create_appointment"
	ActionSearchPatientInfo          = "search_patient_info"
)

// Response envelope types.
const (
	ResponseActionCompleted = "action_completed"
	ResponseText            = "text"
	ResponseError           = "error"
)

// ActionRequest is a parsed natural-language instruction: an action name plus
// its structured arguments. The NLU step that produces it is external (see
// planner.go for the Gemini-backed one).
type ActionRequest struct {
	Action    string          `json:"action"`
	Arguments json.RawMessage `json:"arguments"`
}

// Response is the single envelope every action returns. Content is always a
// user-facing message; no action completes silently.
type Response struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ToothEntry is one value in the odontogram map.
type ToothEntry struct {
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OdontogramState is the tagged result of loading a patient's odontogram:
// Exists=false means no row yet. A stored row whose teeth blob no longer
// unmarshals loads as an existing chart with no teeth. Teeth is never nil.
type OdontogramState struct {
	Exists  bool
	Version int
	Teeth   map[string]ToothEntry
}

// ToothRef accepts a tooth identifier as either a JSON string ("18") or a
// bare number (18); language models produce both.
type ToothRef string

func (t *ToothRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ToothRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("tooth must be a string or number: %w", err)
	}
	*t = ToothRef(n.String())
	return nil
}

func (t ToothRef) String() string { return string(t) }

// NotFoundError carries the original search text so the user-facing message
// can quote it back.
type NotFoundError struct {
	Search string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no encontré al paciente %q", e.Search)
}

// ForbiddenError means the caller has no authorization to act on the resolved
// patient; no side effects have started when it is returned.
type ForbiddenError struct {
	PatientID string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("sin permisos sobre el paciente %s", e.PatientID)
}

// VersionConflictError is returned when a caller opted into an optimistic
// concurrency check on the odontogram and the stored version moved on.
type VersionConflictError struct {
	Expected int
	Actual   int
}

func (e *VersionConflictError) Error() string {
	return "odontogram version conflict: expected " + strconv.Itoa(e.Expected) + ", found " + strconv.Itoa(e.Actual)
}
