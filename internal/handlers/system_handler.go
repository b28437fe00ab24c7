package handlers

import (
	"net/http"

	"go-pos-suite/internal/utils"

	"github.com/gin-gonic/gin"
)

const serverVersion = "1.4.0"

// GetSystemStatus feeds the dashboard "About" panel: version plus a stable
// device ID support can reference when a store calls in.
func GetSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"version":   serverVersion,
		"device_id": utils.GetDeviceID(),
	})
}
