package handlers

import (
	"ControlMed/services"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	service *services.BudgetService
}

func NewBudgetHandler(service *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

func (h *BudgetHandler) GetBudgetByID(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	id := c.Param("budget_id")
	budget, err := h.service.GetByID(c, clinicID, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if budget == nil {
		c.JSON(404, gin.H{"error": "Budget not found"})
		return
	}
	c.JSON(200, budget)
}

func (h *BudgetHandler) GetBudgetsByPatient(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	patientID := c.Param("patient_id")
	budgets, err := h.service.GetAllByPatient(c, clinicID, patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, budgets)
}

func (h *BudgetHandler) UpdateBudgetStatus(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	id := c.Param("budget_id")
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateStatus(c, clinicID, id, body.Status); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Budget status updated"})
}
