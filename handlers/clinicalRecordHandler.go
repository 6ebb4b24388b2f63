package handlers

import (
	"ControlMed/middlewares"
	"ControlMed/models"
	"ControlMed/services"

	"github.com/gin-gonic/gin"
)

type ClinicalRecordHandler struct {
	service *services.ClinicalRecordService
}

func NewClinicalRecordHandler(service *services.ClinicalRecordService) *ClinicalRecordHandler {
	return &ClinicalRecordHandler{service: service}
}

// CreateRecord appends a staff-authored entry to the patient's timeline.
func (h *ClinicalRecordHandler) CreateRecord(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}

	var record models.ClinicalRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	record.ClinicID = clinicID
	record.PatientID = c.Param("patient_id")
	if record.AuthorID == "" {
		if userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context()); err == nil {
			record.AuthorID = userID
		}
	}

	if err := h.service.Create(c, &record); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, record)
}

func (h *ClinicalRecordHandler) GetRecordsByPatient(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	patientID := c.Param("patient_id")
	records, err := h.service.GetAllByPatient(c, clinicID, patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, records)
}
