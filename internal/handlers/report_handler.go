package handlers

import (
	"net/http"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"
	"go-pos-suite/internal/reports"

	"github.com/gin-gonic/gin"
)

// fetchAnalytics pulls the tenant rows for a range and aggregates them.
// Shared by the HTTP handler and the analytics assistant.
func fetchAnalytics(tenantID string, start, end time.Time, now time.Time) (reports.Analytics, error) {
	var transactions []models.Transaction
	err := database.DB.
		Preload("Items").
		Where("tenant_id = ? AND transaction_time >= ? AND transaction_time <= ?", tenantID, start, end).
		Find(&transactions).Error
	if err != nil {
		return reports.Analytics{}, err
	}

	var expenses []models.Expense
	err = database.DB.
		Where("tenant_id = ? AND expense_date >= ? AND expense_date <= ?", tenantID, start, end).
		Find(&expenses).Error
	if err != nil {
		return reports.Analytics{}, err
	}

	data := reports.Build(transactions, expenses)

	// Growth always compares this calendar week against the last one,
	// whatever range the caller asked for.
	currentStart, previousStart := reports.WeekBounds(now)

	var growthWindow []models.Transaction
	err = database.DB.
		Where("tenant_id = ? AND transaction_time >= ?", tenantID, previousStart).
		Find(&growthWindow).Error
	if err != nil {
		return reports.Analytics{}, err
	}

	var currentWeek, previousWeek []models.Transaction
	for _, tx := range growthWindow {
		if tx.TransactionTime.Before(currentStart) {
			previousWeek = append(previousWeek, tx)
		} else {
			currentWeek = append(currentWeek, tx)
		}
	}
	data.WeeklyGrowth = reports.GrowthPercent(
		reports.CompletedSalesTotal(currentWeek),
		reports.CompletedSalesTotal(previousWeek),
	)

	return data, nil
}

// --- GET: /api/reports/analytics ---
func GetAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", reports.PeriodDaily)
	now := time.Now()

	start, end, err := reports.ResolvePeriod(period, c.Query("startDate"), c.Query("endDate"), now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := fetchAnalytics(middleware.TenantID(c), start, end, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":    period,
		"startDate": start,
		"endDate":   end,
		"analytics": data,
	})
}
