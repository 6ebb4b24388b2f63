package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Planner turns a free-form natural-language instruction into a typed action
// request. The dispatcher never depends on it; callers that already have a
// parsed ActionRequest skip the planner entirely.
type Planner interface {
	PlanAction(ctx context.Context, prompt string) (PlannedAction, error)
}

// PlannedAction is a planner result: either an action to dispatch, or (when
// Action is empty or "none") a plain conversational answer.
type PlannedAction struct {
	ActionRequest
	Answer string `json:"answer"`
}

// IsAction reports whether the planner resolved the prompt to a dispatchable
// action rather than a plain answer.
func (p PlannedAction) IsAction() bool {
	return p.Action != "" && p.Action != "none"
}

const plannerSystemInstruction = `Eres MediBot, el asistente clínico de ControlMed.
Tu única tarea es convertir la petición del usuario en una acción JSON estricta.

Responde SIEMPRE con un único objeto JSON:
{"action": "...", "arguments": {...}, "answer": "mensaje breve en español"}

Acciones disponibles y sus argumentos:
- "update_odontogram_with_budget": {"patientName", "treatments": [{"tooth", "treatmentType", "notes"?}], "createBudget"?}
- "update_odontogram": {"patientName", "teeth": [{"tooth", "status"}]}
- "add_clinical_record": {"patientName", "treatment", "observation", "specialization"?}
- "create_budget": {"patientName", "items": [{"name", "price", "tooth"?, "quantity"?}]}
- "create_prescription": {"patientName", "medication", "instructions"}
- "create_appointment": {"patientName", "date", "time", "treatmentType"?}
- "search_patient_info": {"patientName"}

Usa numeración ISO-3950 para las piezas dentales.
Si la petición es una pregunta general sin acción, devuelve {"action": "none", "answer": "..."}.`

// GeminiPlanner resolves prompts through Google's Gemini API with a
// strict-JSON response protocol.
type GeminiPlanner struct {
	client  *genai.Client
	modelID string
}

func NewGeminiPlanner(ctx context.Context, apiKey, modelID string) (*GeminiPlanner, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to create gemini client: %w", err)
	}
	return &GeminiPlanner{client: client, modelID: modelID}, nil
}

func (p *GeminiPlanner) Close() error {
	return p.client.Close()
}

// PlanAction sends the prompt to Gemini and parses the JSON protocol reply.
func (p *GeminiPlanner) PlanAction(ctx context.Context, prompt string) (PlannedAction, error) {
	model := p.client.GenerativeModel(p.modelID)
	model.SystemInstruction = genai.NewUserContent(genai.Text(plannerSystemInstruction))
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return PlannedAction{}, fmt.Errorf("assistant: gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return PlannedAction{}, errors.New("assistant: gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return ParsePlannedAction(text.String())
}

// ParsePlannedAction decodes the planner's JSON reply. Code fences around the
// object are tolerated; a reply that is not JSON at all degrades to a plain
// text answer rather than an error, so a model that ignores the protocol
// still produces a usable response.
func ParsePlannedAction(text string) (PlannedAction, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return PlannedAction{}, errors.New("assistant: empty planner reply")
	}

	var planned PlannedAction
	if err := json.Unmarshal([]byte(cleaned), &planned); err != nil {
		return PlannedAction{Answer: cleaned}, nil
	}
	return planned, nil
}
