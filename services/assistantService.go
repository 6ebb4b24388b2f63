package services

import (
	"ControlMed/assistant"
	"context"
	"log"
	"strings"
)

// AssistantService is the entry point for assistant traffic. Structured
// action requests go straight to the dispatcher; free-form prompts are first
// resolved to an action by the planner, when one is configured.
type AssistantService struct {
	dispatcher *assistant.Dispatcher
	planner    assistant.Planner
}

func NewAssistantService(dispatcher *assistant.Dispatcher, planner assistant.Planner) *AssistantService {
	return &AssistantService{dispatcher: dispatcher, planner: planner}
}

func (s *AssistantService) ProcessAction(ctx context.Context, clinicID string, req assistant.ActionRequest, caller assistant.Caller) assistant.Response {
	return s.dispatcher.ProcessQuery(ctx, clinicID, req, caller)
}

// ProcessPrompt plans a free-form instruction and dispatches the result. A
// prompt that resolves to no action returns the planner's conversational
// answer as a text response.
func (s *AssistantService) ProcessPrompt(ctx context.Context, clinicID, prompt string, caller assistant.Caller) assistant.Response {
	if strings.TrimSpace(prompt) == "" {
		return assistant.Response{Type: assistant.ResponseError, Content: "No he recibido ninguna instrucción."}
	}
	if s.planner == nil {
		return assistant.Response{Type: assistant.ResponseError, Content: "El asistente de lenguaje natural no está configurado."}
	}

	planned, err := s.planner.PlanAction(ctx, prompt)
	if err != nil {
		log.Printf("Planner failed: %v", err)
		return assistant.Response{Type: assistant.ResponseError, Content: "No he podido interpretar la instrucción. Inténtalo de nuevo."}
	}

	if !planned.IsAction() {
		answer := planned.Answer
		if answer == "" {
			answer = "¿En qué puedo ayudarte?"
		}
		return assistant.Response{Type: assistant.ResponseText, Content: answer}
	}

	return s.dispatcher.ProcessQuery(ctx, clinicID, planned.ActionRequest, caller)
}
