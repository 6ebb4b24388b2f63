package handlers

import (
	"ControlMed/middlewares"

	"github.com/gin-gonic/gin"
)

// clinicScope pulls the clinic id the token was issued for. Aborts with 401
// when the request context carries no clinic claim.
func clinicScope(c *gin.Context) (string, bool) {
	clinicID, err := middlewares.ExtractClinicIDFromContext(c.Request.Context())
	if err != nil {
		c.JSON(401, gin.H{"error": "Clinic not found in token"})
		return "", false
	}
	return clinicID, true
}
