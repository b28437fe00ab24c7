package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductRequest is the write payload. SizeIDs/AddonIDs are pointers so we
// can tell "not sent" (leave associations alone) apart from "sent empty"
// (clear them all).
type ProductRequest struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Name       string    `json:"name"`
	Price      *float64  `json:"price"`
	ImageURL   *string   `json:"imageUrl"`
	SizeIDs    *[]string `json:"sizeIds"`
	AddonIDs   *[]string `json:"addonIds"`
}

// tenantSizes resolves a size ID list within the tenant. Any ID that is
// missing or owned by another tenant fails the whole request.
func tenantSizes(tenantID string, ids []string) ([]models.Size, error) {
	sizes := make([]models.Size, 0, len(ids))
	if len(ids) == 0 {
		return sizes, nil
	}
	if err := database.DB.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&sizes).Error; err != nil {
		return nil, err
	}
	if len(sizes) != len(ids) {
		return nil, fmt.Errorf("one or more sizes do not exist")
	}
	return sizes, nil
}

func tenantAddons(tenantID string, ids []string) ([]models.Addon, error) {
	addons := make([]models.Addon, 0, len(ids))
	if len(ids) == 0 {
		return addons, nil
	}
	if err := database.DB.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&addons).Error; err != nil {
		return nil, err
	}
	if len(addons) != len(ids) {
		return nil, fmt.Errorf("one or more addons do not exist")
	}
	return addons, nil
}

// --- GET: /api/products ---
func GetProducts(c *gin.Context) {
	var products []models.Product

	query := database.DB.
		Preload("Sizes").
		Preload("Addons").
		Where("tenant_id = ?", middleware.TenantID(c))

	if categoryID := c.Query("categoryId"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- GET: /api/products/:id ---
func GetProduct(c *gin.Context) {
	var product models.Product
	err := database.DB.
		Preload("Sizes").
		Preload("Addons").
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&product).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// --- POST: /api/products ---
func AddProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Name == "" || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name and price are required"})
		return
	}

	tenantID := middleware.TenantID(c)

	if req.ID == "" {
		req.ID = uuid.NewString()
	} else {
		var existing models.Product
		if err := database.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Product with this ID already exists"})
			return
		}
	}

	product := models.Product{
		ID:         req.ID,
		TenantID:   tenantID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Price:      *req.Price,
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	// Associations may only reference rows from the same tenant
	if req.SizeIDs != nil {
		sizes, err := tenantSizes(tenantID, *req.SizeIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product.Sizes = sizes
	}
	if req.AddonIDs != nil {
		addons, err := tenantAddons(tenantID, *req.AddonIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product.Addons = addons
	}

	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// --- PATCH: /api/products/:id ---
// Size/addon lists replace the current set wholesale: sending [] clears
// every association, omitting the field leaves them untouched.
func UpdateProduct(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var product models.Product
	err := database.DB.
		Where("tenant_id = ? AND id = ?", tenantID, c.Param("id")).
		First(&product).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.CategoryID != "" {
		product.CategoryID = req.CategoryID
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := database.DB.Omit("Sizes", "Addons").Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if req.SizeIDs != nil {
		sizes, err := tenantSizes(tenantID, *req.SizeIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := database.DB.Model(&product).Association("Sizes").Replace(sizes); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update size associations"})
			return
		}
	}
	if req.AddonIDs != nil {
		addons, err := tenantAddons(tenantID, *req.AddonIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := database.DB.Model(&product).Association("Addons").Replace(addons); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update addon associations"})
			return
		}
	}

	// Read back with fresh associations
	database.DB.Preload("Sizes").Preload("Addons").First(&product, "id = ?", product.ID)

	c.JSON(http.StatusOK, product)
}

// --- DELETE: /api/products/:id ---
func DeleteProduct(c *gin.Context) {
	var product models.Product
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&product).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := database.DB.Select("Sizes", "Addons").Delete(&product).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product. It might be linked to past sales."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- UPLOAD: /api/upload ---
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Unique filename, e.g. "167890123_burger.jpg"
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	filepath := "./uploads/" + filename

	if err := c.SaveUploadedFile(file, filepath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}
