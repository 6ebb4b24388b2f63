package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// rootHandler answers liveness probes and hand-typed checks.
func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "ControlMed",
		"status":  "ok",
	})
}

// SetupRootRoute registers the root path.
func SetupRootRoute(router *gin.Engine) {
	router.GET("/", rootHandler)
}
