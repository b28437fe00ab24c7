package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"
	"go-pos-suite/internal/reports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionRequest is what the cashier app sends at checkout
type TransactionRequest struct {
	ID    string `json:"id"`
	Items []struct {
		ProductID string   `json:"productId" binding:"required"`
		SizeID    string   `json:"sizeId"`
		Quantity  int      `json:"quantity" binding:"required"`
		AddonIDs  []string `json:"addonIds"`
	} `json:"items" binding:"required,min=1"`
	PaymentMethod   string   `json:"paymentMethod" binding:"required"`
	PaymentStatus   string   `json:"paymentStatus"`
	CashReceived    *float64 `json:"cashReceived"`
	ReferenceNumber string   `json:"referenceNumber"`
}

// --- POST: /api/transactions ---
// Prices come from the catalog at capture time and are frozen into the
// item rows. Everything lands in one DB transaction.
func CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tenantID := middleware.TenantID(c)
	userID := middleware.UserID(c)

	if req.ID != "" {
		var existing models.Transaction
		if err := database.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction with this ID already exists"})
			return
		}
	} else {
		req.ID = uuid.NewString()
	}

	status := req.PaymentStatus
	if status == "" {
		status = models.PaymentCompleted
	}

	tx := database.DB.Begin()

	var subtotal float64
	var items []models.TransactionItem

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
			return
		}

		var product models.Product
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, line.ProductID).First(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product %s not found", line.ProductID)})
			return
		}

		unitPrice := product.Price
		item := models.TransactionItem{
			ID:          uuid.NewString(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
		}

		if line.SizeID != "" {
			var size models.Size
			if err := tx.Where("tenant_id = ? AND id = ?", tenantID, line.SizeID).First(&size).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Size %s not found", line.SizeID)})
				return
			}
			unitPrice += size.PriceModifier
			item.SizeID = size.ID
			item.SizeName = size.Name
		}

		for _, addonID := range line.AddonIDs {
			var addon models.Addon
			if err := tx.Where("tenant_id = ? AND id = ?", tenantID, addonID).First(&addon).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Addon %s not found", addonID)})
				return
			}
			unitPrice += addon.PriceModifier
			item.Addons = append(item.Addons, models.TransactionItemAddon{
				ID:        uuid.NewString(),
				AddonID:   addon.ID,
				AddonName: addon.Name,
				Price:     addon.PriceModifier,
			})
		}

		item.Subtotal = unitPrice * float64(line.Quantity)
		subtotal += item.Subtotal
		items = append(items, item)
	}

	transaction := models.Transaction{
		ID:              req.ID,
		TenantID:        tenantID,
		UserID:          userID,
		Subtotal:        subtotal,
		Total:           subtotal,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   status,
		CashReceived:    req.CashReceived,
		ReferenceNumber: req.ReferenceNumber,
		TransactionTime: time.Now(),
		Items:           items, // GORM inserts these with the header
	}

	if req.CashReceived != nil {
		change := *req.CashReceived - transaction.Total
		transaction.Change = &change
	}

	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, transaction)
}

// --- GET: /api/transactions ---
func GetTransactions(c *gin.Context) {
	query := database.DB.
		Preload("Items").
		Preload("Items.Addons").
		Where("tenant_id = ?", middleware.TenantID(c))

	if start := c.Query("startDate"); start != "" {
		if t, err := time.ParseInLocation("2006-01-02", start, time.Local); err == nil {
			query = query.Where("transaction_time >= ?", t)
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, err := time.ParseInLocation("2006-01-02", end, time.Local); err == nil {
			query = query.Where("transaction_time < ?", t.AddDate(0, 0, 1))
		}
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}

	var transactions []models.Transaction
	if err := query.Order("transaction_time desc").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// --- GET: /api/transactions/:id ---
func GetTransaction(c *gin.Context) {
	var transaction models.Transaction
	err := database.DB.
		Preload("Items").
		Preload("Items.Addons").
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&transaction).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// --- GET: /api/transactions/stats ---
func GetTransactionStats(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var transactions []models.Transaction
	if err := database.DB.Where("tenant_id = ?", tenantID).Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	var todayCount int
	for _, tx := range transactions {
		if !tx.TransactionTime.Before(dayStart) {
			todayCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalCount":     len(transactions),
		"completedSales": reports.CompletedSalesTotal(transactions),
		"todayCount":     todayCount,
	})
}

type VoidRequest struct {
	Status string `json:"status" binding:"required"` // requested, approved, rejected
}

// --- PATCH: /api/transactions/:id/void ---
// A void never deletes the row; submitted-report reads pick the flag up.
func VoidTransaction(c *gin.Context) {
	var req VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	switch req.Status {
	case models.VoidRequested, models.VoidApproved, models.VoidRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid void status"})
		return
	}

	var transaction models.Transaction
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&transaction).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	transaction.VoidStatus = req.Status
	if err := database.DB.Model(&transaction).Update("void_status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}

	c.JSON(http.StatusOK, transaction)
}
