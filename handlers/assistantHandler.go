package handlers

import (
	"ControlMed/assistant"
	"ControlMed/middlewares"
	"ControlMed/services"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	service *services.AssistantService
}

func NewAssistantHandler(service *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

type assistantQuery struct {
	Action    string          `json:"action"`
	Arguments json.RawMessage `json:"arguments"`
	Prompt    string          `json:"prompt"`
}

// ProcessQuery accepts either a structured action or a free-form prompt.
// Every outcome, including failures, answers 200 with the response envelope;
// the type field tells the frontend how to render it.
func (h *AssistantHandler) ProcessQuery(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	caller, err := middlewares.ExtractCallerFromContext(c.Request.Context())
	if err != nil {
		c.JSON(401, gin.H{"error": "User not found in context"})
		return
	}

	var query assistantQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	var resp assistant.Response
	if query.Action != "" {
		resp = h.service.ProcessAction(c, clinicID, assistant.ActionRequest{
			Action:    query.Action,
			Arguments: query.Arguments,
		}, caller)
	} else {
		resp = h.service.ProcessPrompt(c, clinicID, query.Prompt, caller)
	}

	c.JSON(200, resp)
}
