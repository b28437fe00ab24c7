package handlers

import (
	"net/http"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Sizes and addons are the same shape (a named signed price modifier), so
// their handlers mirror each other.

// --- GET: /api/sizes ---
func GetSizes(c *gin.Context) {
	var sizes []models.Size
	if err := database.DB.Where("tenant_id = ?", middleware.TenantID(c)).Find(&sizes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sizes"})
		return
	}
	c.JSON(http.StatusOK, sizes)
}

// --- GET: /api/sizes/:id ---
func GetSize(c *gin.Context) {
	var size models.Size
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&size).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
		return
	}
	c.JSON(http.StatusOK, size)
}

// --- POST: /api/sizes ---
func AddSize(c *gin.Context) {
	var newSize models.Size
	if err := c.ShouldBindJSON(&newSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if newSize.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Size name is required"})
		return
	}

	if newSize.ID == "" {
		newSize.ID = uuid.NewString()
	} else {
		var existing models.Size
		if err := database.DB.First(&existing, "id = ?", newSize.ID).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Size with this ID already exists"})
			return
		}
	}
	newSize.TenantID = middleware.TenantID(c)

	if err := database.DB.Create(&newSize).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create size"})
		return
	}
	c.JSON(http.StatusCreated, newSize)
}

// --- PATCH: /api/sizes/:id ---
func UpdateSize(c *gin.Context) {
	var size models.Size
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&size).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&size).Updates(scrubUpdate(updateData)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update size"})
		return
	}
	c.JSON(http.StatusOK, size)
}

// --- DELETE: /api/sizes/:id ---
func DeleteSize(c *gin.Context) {
	var size models.Size
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&size).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
		return
	}

	if err := database.DB.Delete(&size).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete size"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Size deleted successfully"})
}

// --- GET: /api/addons ---
func GetAddons(c *gin.Context) {
	var addons []models.Addon
	if err := database.DB.Where("tenant_id = ?", middleware.TenantID(c)).Find(&addons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addons"})
		return
	}
	c.JSON(http.StatusOK, addons)
}

// --- GET: /api/addons/:id ---
func GetAddon(c *gin.Context) {
	var addon models.Addon
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&addon).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Addon not found"})
		return
	}
	c.JSON(http.StatusOK, addon)
}

// --- POST: /api/addons ---
func AddAddon(c *gin.Context) {
	var newAddon models.Addon
	if err := c.ShouldBindJSON(&newAddon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if newAddon.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Addon name is required"})
		return
	}

	if newAddon.ID == "" {
		newAddon.ID = uuid.NewString()
	} else {
		var existing models.Addon
		if err := database.DB.First(&existing, "id = ?", newAddon.ID).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Addon with this ID already exists"})
			return
		}
	}
	newAddon.TenantID = middleware.TenantID(c)

	if err := database.DB.Create(&newAddon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create addon"})
		return
	}
	c.JSON(http.StatusCreated, newAddon)
}

// --- PATCH: /api/addons/:id ---
func UpdateAddon(c *gin.Context) {
	var addon models.Addon
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&addon).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Addon not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&addon).Updates(scrubUpdate(updateData)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update addon"})
		return
	}
	c.JSON(http.StatusOK, addon)
}

// --- DELETE: /api/addons/:id ---
func DeleteAddon(c *gin.Context) {
	var addon models.Addon
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&addon).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Addon not found"})
		return
	}

	if err := database.DB.Delete(&addon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete addon"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Addon deleted successfully"})
}
