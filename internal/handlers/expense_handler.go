package handlers

import (
	"net/http"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExpenseRequest struct {
	ID          string   `json:"id"`
	Description string   `json:"description" binding:"required"`
	Amount      *float64 `json:"amount" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	ExpenseDate string   `json:"expenseDate"` // YYYY-MM-DD, defaults to today
	ReceiptURL  string   `json:"receiptUrl"`
	Notes       string   `json:"notes"`
}

// --- GET: /api/expenses ---
func GetExpenses(c *gin.Context) {
	query := database.DB.Where("tenant_id = ?", middleware.TenantID(c))

	if start := c.Query("startDate"); start != "" {
		if t, err := time.ParseInLocation("2006-01-02", start, time.Local); err == nil {
			query = query.Where("expense_date >= ?", t)
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, err := time.ParseInLocation("2006-01-02", end, time.Local); err == nil {
			query = query.Where("expense_date < ?", t.AddDate(0, 0, 1))
		}
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var expenses []models.Expense
	if err := query.Order("expense_date desc").Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// --- GET: /api/expenses/:id ---
func GetExpense(c *gin.Context) {
	var expense models.Expense
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&expense).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// --- POST: /api/expenses ---
func AddExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if *req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	} else {
		var existing models.Expense
		if err := database.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Expense with this ID already exists"})
			return
		}
	}

	expenseDate := time.Now()
	if req.ExpenseDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.ExpenseDate, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expenseDate, expected YYYY-MM-DD"})
			return
		}
		expenseDate = t
	}

	expense := models.Expense{
		ID:          req.ID,
		TenantID:    middleware.TenantID(c),
		UserID:      middleware.UserID(c),
		Description: req.Description,
		Amount:      *req.Amount,
		Category:    req.Category,
		ExpenseDate: expenseDate,
		ReceiptURL:  req.ReceiptURL,
		Notes:       req.Notes,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// --- PATCH: /api/expenses/:id ---
func UpdateExpense(c *gin.Context) {
	var expense models.Expense
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&expense).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&expense).Updates(scrubUpdate(updateData)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// --- DELETE: /api/expenses/:id ---
func DeleteExpense(c *gin.Context) {
	var expense models.Expense
	err := database.DB.
		Where("tenant_id = ? AND id = ?", middleware.TenantID(c), c.Param("id")).
		First(&expense).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	if err := database.DB.Delete(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
