package handlers

import (
	"net/http"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /tenants/slug/:slug ---
// Public route: the cashier app resolves a store slug to a tenant before
// anyone logs in. Inactive stores answer like missing ones.
func GetTenantBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var tenant models.Tenant
	if err := database.DB.Where("slug = ? AND active = ?", slug, true).First(&tenant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// --- GET: /api/tenants/me ---
func GetMyTenant(c *gin.Context) {
	var tenant models.Tenant
	if err := database.DB.First(&tenant, "id = ?", middleware.TenantID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	c.JSON(http.StatusOK, tenant)
}
