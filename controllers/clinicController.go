package controllers

import (
	"ControlMed/handlers"
	"ControlMed/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupClinicRoutes wires the clinic data surface. Everything here requires a
// valid staff token; the clinic scope comes from the token claims.
func SetupClinicRoutes(
	router *gin.Engine,
	patientHandler *handlers.PatientHandler,
	doctorHandler *handlers.DoctorHandler,
	odontogramHandler *handlers.OdontogramHandler,
	budgetHandler *handlers.BudgetHandler,
	clinicalRecordHandler *handlers.ClinicalRecordHandler,
	appointmentHandler *handlers.AppointmentHandler,
) {
	clinic := router.Group("/").Use(middlewares.TokenAuthMiddleware())
	{
		clinic.POST("/doctors", doctorHandler.CreateDoctor)
		clinic.PUT("/doctors/:id", doctorHandler.UpdateDoctor)
		clinic.DELETE("/doctors/:id", doctorHandler.DeleteDoctor)
		clinic.GET("/doctors", doctorHandler.GetAllDoctors)
		clinic.GET("/doctors/:id/appointments", appointmentHandler.GetAppointmentsByDoctor)

		clinic.POST("/patients", patientHandler.CreatePatient)
		clinic.GET("/patients/:patient_id", patientHandler.GetPatientByID)
		clinic.PUT("/patients/:patient_id", patientHandler.UpdatePatient)
		clinic.DELETE("/patients/:patient_id", patientHandler.DeletePatient)
		clinic.GET("/patients", patientHandler.GetAllPatients)

		clinic.GET("/patients/:patient_id/odontogram", odontogramHandler.GetOdontogramByPatient)
		clinic.PUT("/patients/:patient_id/odontogram", odontogramHandler.UpdateOdontogram)
		clinic.GET("/patients/:patient_id/clinical_records", clinicalRecordHandler.GetRecordsByPatient)
		clinic.POST("/patients/:patient_id/clinical_records", clinicalRecordHandler.CreateRecord)
		clinic.GET("/patients/:patient_id/budgets", budgetHandler.GetBudgetsByPatient)

		clinic.GET("/budgets/:budget_id", budgetHandler.GetBudgetByID)
		clinic.PUT("/budgets/:budget_id/status", budgetHandler.UpdateBudgetStatus)

		clinic.POST("/patients/:patient_id/appointments", appointmentHandler.CreateAppointment)
		clinic.GET("/patients/:patient_id/appointments", appointmentHandler.GetAppointmentsByPatient)
		clinic.PUT("/appointments/:appointment_id/status", appointmentHandler.UpdateAppointmentStatus)
		clinic.DELETE("/appointments/:appointment_id", appointmentHandler.DeleteAppointment)
	}
}
