package controllers

import (
	"ControlMed/handlers"
	"ControlMed/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupAssistantRoutes exposes the AI assistant entry point to authenticated
// staff.
func SetupAssistantRoutes(router *gin.Engine, assistantHandler *handlers.AssistantHandler) {
	ai := router.Group("/ai").Use(middlewares.TokenAuthMiddleware())
	{
		ai.POST("/query", assistantHandler.ProcessQuery)
	}
}
