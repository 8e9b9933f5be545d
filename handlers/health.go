package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumify/backend/models"
)

// Version is reported by the health check
const Version = "1.0.0"

// HealthCheck returns server health status
// @Summary Health check
// @Description Check if the server is running and healthy
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse "Server is healthy"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Page not found", nil)
}
