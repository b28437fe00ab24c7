package handlers

import (
	"net/http"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/inventory"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- GET: /api/inventory/items ---
func GetInventoryItems(c *gin.Context) {
	var items []models.InventoryItem
	if err := database.DB.Where("tenant_id = ?", middleware.TenantID(c)).Order("name asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- POST: /api/inventory/items ---
func AddInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item name is required"})
		return
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	} else {
		var existing models.InventoryItem
		if err := database.DB.First(&existing, "id = ?", item.ID).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Inventory item with this ID already exists"})
			return
		}
	}
	item.TenantID = middleware.TenantID(c)

	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// --- PATCH: /api/inventory/items/:id ---
func UpdateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&item).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&item).Updates(scrubUpdate(updateData)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inventory item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- DELETE: /api/inventory/items/:id ---
func DeleteInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&item).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	if err := database.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inventory item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}

// --- GET: /api/inventory/records ---
func GetInventoryRecords(c *gin.Context) {
	query := database.DB.Where("tenant_id = ?", middleware.TenantID(c))

	if itemID := c.Query("itemId"); itemID != "" {
		query = query.Where("inventory_item_id = ?", itemID)
	}
	if start := c.Query("startDate"); start != "" {
		if t, err := time.ParseInLocation("2006-01-02", start, time.Local); err == nil {
			query = query.Where("record_date >= ?", t)
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, err := time.ParseInLocation("2006-01-02", end, time.Local); err == nil {
			query = query.Where("record_date < ?", t.AddDate(0, 0, 1))
		}
	}

	var records []models.InventoryRecord
	if err := query.Order("record_date desc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

type RecordRequest struct {
	InventoryItemID string   `json:"inventoryItemId" binding:"required"`
	Quantity        *float64 `json:"quantity" binding:"required"`
	RecordDate      string   `json:"recordDate"` // YYYY-MM-DD, defaults to now
}

// buildRecord validates one count tuple against the tenant's items.
func buildRecord(tx *gorm.DB, tenantID, userID string, req RecordRequest) (*models.InventoryRecord, string) {
	if *req.Quantity < 0 {
		return nil, "Quantity must not be negative"
	}

	var item models.InventoryItem
	if err := tx.Where("tenant_id = ? AND id = ?", tenantID, req.InventoryItemID).First(&item).Error; err != nil {
		return nil, "Inventory item " + req.InventoryItemID + " not found"
	}

	recordDate := time.Now()
	if req.RecordDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.RecordDate, time.Local)
		if err != nil {
			return nil, "Invalid recordDate, expected YYYY-MM-DD"
		}
		recordDate = t
	}

	return &models.InventoryRecord{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		InventoryItemID: item.ID,
		UserID:          userID,
		Quantity:        *req.Quantity,
		RecordDate:      recordDate,
		CreatedAt:       time.Now(),
	}, ""
}

// --- POST: /api/inventory/records ---
func AddInventoryRecord(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	record, msg := buildRecord(database.DB, middleware.TenantID(c), middleware.UserID(c), req)
	if record == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := database.DB.Create(record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory record"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

type BulkRecordRequest struct {
	Records []RecordRequest `json:"records" binding:"required,min=1"`
}

// --- POST: /api/inventory/records/bulk ---
// One count sheet, one DB transaction. A single bad tuple rolls the whole
// batch back so the sheet never half-applies.
func AddInventoryRecordsBulk(c *gin.Context) {
	var req BulkRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	tenantID := middleware.TenantID(c)
	userID := middleware.UserID(c)

	tx := database.DB.Begin()

	created := make([]models.InventoryRecord, 0, len(req.Records))
	for _, r := range req.Records {
		record, msg := buildRecord(tx, tenantID, userID, r)
		if record == nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if err := tx.Create(record).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory records"})
			return
		}
		created = append(created, *record)
	}

	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{"created": len(created), "records": created})
}

// --- GET: /api/inventory/latest ---
// Latest quantity per item, optionally as of ?date=YYYY-MM-DD (records
// after that day are ignored).
func GetLatestInventory(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var asOf *time.Time
	if date := c.Query("date"); date != "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		endOfDay := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		asOf = &endOfDay
	}

	var items []models.InventoryItem
	if err := database.DB.Where("tenant_id = ?", tenantID).Order("name asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory items"})
		return
	}

	var records []models.InventoryRecord
	if err := database.DB.Where("tenant_id = ?", tenantID).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory records"})
		return
	}

	c.JSON(http.StatusOK, inventory.LatestView(items, records, asOf))
}

// --- GET: /api/inventory/stats ---
func GetInventoryStats(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var items []models.InventoryItem
	if err := database.DB.Where("tenant_id = ?", tenantID).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory items"})
		return
	}

	var records []models.InventoryRecord
	if err := database.DB.Where("tenant_id = ?", tenantID).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory records"})
		return
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	var recordsToday int
	for _, rec := range records {
		if !rec.RecordDate.Before(dayStart) {
			recordsToday++
		}
	}

	var lowStock int
	for _, entry := range inventory.LatestView(items, records, nil) {
		if entry.BelowMinStock {
			lowStock++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"itemCount":    len(items),
		"recordsToday": recordsToday,
		"lowStock":     lowStock,
	})
}
