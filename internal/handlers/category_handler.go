package handlers

import (
	"net/http"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// scrubUpdate drops fields a PATCH is never allowed to touch. The JSON key
// casing varies by client, so both spellings go.
func scrubUpdate(data map[string]interface{}) map[string]interface{} {
	for _, key := range []string{"id", "tenantId", "tenant_id", "ID"} {
		delete(data, key)
	}
	return data
}

// --- GET: /api/categories ---
func GetCategories(c *gin.Context) {
	var categories []models.Category

	result := database.DB.
		Where("tenant_id = ?", middleware.TenantID(c)).
		Order("sequence asc").
		Find(&categories)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// --- GET: /api/categories/:id ---
func GetCategory(c *gin.Context) {
	var category models.Category
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&category).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// --- POST: /api/categories ---
// Clients may supply their own ID (the mobile app creates rows offline);
// a duplicate ID is a conflict, never a silent overwrite.
func AddCategory(c *gin.Context) {
	var newCategory models.Category

	if err := c.ShouldBindJSON(&newCategory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if newCategory.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	if newCategory.ID == "" {
		newCategory.ID = uuid.NewString()
	} else {
		var existing models.Category
		if err := database.DB.First(&existing, "id = ?", newCategory.ID).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Category with this ID already exists"})
			return
		}
	}
	newCategory.TenantID = middleware.TenantID(c)

	if err := database.DB.Create(&newCategory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, newCategory)
}

// --- PATCH: /api/categories/:id ---
func UpdateCategory(c *gin.Context) {
	// 1. Scoped lookup first: a wrong-tenant ID reads as not found
	var category models.Category
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&category).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	// 2. Partial update: only the fields that were sent change
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&category).Updates(scrubUpdate(updateData)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// --- DELETE: /api/categories/:id ---
func DeleteCategory(c *gin.Context) {
	var category models.Category
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&category).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
