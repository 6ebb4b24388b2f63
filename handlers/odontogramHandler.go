package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ControlMed/assistant"
	"ControlMed/services"
)

type OdontogramHandler struct {
	service *services.OdontogramService
}

func NewOdontogramHandler(service *services.OdontogramService) *OdontogramHandler {
	return &OdontogramHandler{service: service}
}

func (h *OdontogramHandler) GetOdontogramByPatient(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	patientID := c.Param("patient_id")
	state, err := h.service.Get(c, clinicID, patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, state)
}

// UpdateOdontogram replaces the whole tooth map. Passing expectedVersion turns
// the write into a compare-and-swap; omitting it is last-write-wins.
func (h *OdontogramHandler) UpdateOdontogram(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}

	var body struct {
		Teeth           map[string]assistant.ToothEntry `json:"teeth"`
		ExpectedVersion *int                            `json:"expectedVersion"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	patientID := c.Param("patient_id")
	state, err := h.service.Replace(c, clinicID, patientID, body.Teeth, body.ExpectedVersion)
	if err != nil {
		var conflict *assistant.VersionConflictError
		if errors.As(err, &conflict) {
			c.JSON(409, gin.H{"error": conflict.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, state)
}
