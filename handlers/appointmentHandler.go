package handlers

import (
	"ControlMed/models"
	"ControlMed/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	var appointment models.Appointment
	if err := c.ShouldBindJSON(&appointment); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	appointment.ClinicID = clinicID
	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}
	if appointment.Status == "" {
		appointment.Status = "Scheduled"
	}
	if err := h.service.Create(c, &appointment); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, appointment)
}

func (h *AppointmentHandler) GetAppointmentsByPatient(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	patientID := c.Param("patient_id")
	appointments, err := h.service.GetAllByPatient(c, clinicID, patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, appointments)
}

func (h *AppointmentHandler) GetAppointmentsByDoctor(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	doctorID := c.Param("id")
	date := c.Query("date")
	appointments, err := h.service.GetAllByDoctor(c, clinicID, doctorID, date)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, appointments)
}

func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	id := c.Param("appointment_id")
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
	c.JSON(200, gin.H{"message": "Appointment status updated"})
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	clinicID, ok := clinicScope(c)
	if !ok {
		return
	}
	id := c.Param("appointment_id")
	if err := h.service.Delete(c, clinicID, id); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Appointment deleted"})
}
