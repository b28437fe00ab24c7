package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmittedReportRequest carries pre-computed snapshots. The server stores
// them verbatim; it does not recompute or cross-check against the
// referenced transactions.
type SubmittedReportRequest struct {
	ID               string          `json:"id"`
	ReportDate       string          `json:"reportDate" binding:"required"` // YYYY-MM-DD
	PeriodStart      time.Time       `json:"periodStart" binding:"required"`
	PeriodEnd        time.Time       `json:"periodEnd" binding:"required"`
	SalesSnapshot    json.RawMessage `json:"salesSnapshot" binding:"required"`
	ExpensesSnapshot json.RawMessage `json:"expensesSnapshot" binding:"required"`
	SummarySnapshot  json.RawMessage `json:"summarySnapshot" binding:"required"`
	TransactionIDs   []string        `json:"transactionIds"`
	ExpenseIDs       []string        `json:"expenseIds"`
	Notes            string          `json:"notes"`
}

// SubmittedReportResponse is the read shape; snapshots come back exactly
// as stored.
type SubmittedReportResponse struct {
	ID                    string               `json:"id"`
	UserID                string               `json:"userId"`
	ReportDate            string               `json:"reportDate"`
	PeriodStart           time.Time            `json:"periodStart"`
	PeriodEnd             time.Time            `json:"periodEnd"`
	SalesSnapshot         json.RawMessage      `json:"salesSnapshot"`
	ExpensesSnapshot      json.RawMessage      `json:"expensesSnapshot"`
	SummarySnapshot       json.RawMessage      `json:"summarySnapshot"`
	TransactionIDs        []string             `json:"transactionIds"`
	ExpenseIDs            []string             `json:"expenseIds"`
	Notes                 string               `json:"notes,omitempty"`
	SubmittedAt           time.Time            `json:"submittedAt"`
	Transactions          []models.Transaction `json:"transactions,omitempty"`
	Expenses              []models.Expense     `json:"expenses,omitempty"`
	HasVoidedTransactions *bool                `json:"hasVoidedTransactions,omitempty"`
}

func toReportResponse(r models.SubmittedReport) SubmittedReportResponse {
	resp := SubmittedReportResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		ReportDate:       r.ReportDate,
		PeriodStart:      r.PeriodStart,
		PeriodEnd:        r.PeriodEnd,
		SalesSnapshot:    json.RawMessage(r.SalesSnapshot),
		ExpensesSnapshot: json.RawMessage(r.ExpensesSnapshot),
		SummarySnapshot:  json.RawMessage(r.SummarySnapshot),
		Notes:            r.Notes,
		SubmittedAt:      r.SubmittedAt,
	}
	json.Unmarshal([]byte(r.TransactionIDs), &resp.TransactionIDs)
	json.Unmarshal([]byte(r.ExpenseIDs), &resp.ExpenseIDs)
	return resp
}

// --- POST: /api/submitted-reports ---
func CreateSubmittedReport(c *gin.Context) {
	var req SubmittedReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.ReportDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reportDate, expected YYYY-MM-DD"})
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	} else {
		var existing models.SubmittedReport
		if err := database.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Report with this ID already exists"})
			return
		}
	}

	txIDs, _ := json.Marshal(req.TransactionIDs)
	expIDs, _ := json.Marshal(req.ExpenseIDs)

	report := models.SubmittedReport{
		ID:               req.ID,
		TenantID:         middleware.TenantID(c),
		UserID:           middleware.UserID(c),
		ReportDate:       req.ReportDate,
		PeriodStart:      req.PeriodStart,
		PeriodEnd:        req.PeriodEnd,
		SalesSnapshot:    string(req.SalesSnapshot),
		ExpensesSnapshot: string(req.ExpensesSnapshot),
		SummarySnapshot:  string(req.SummarySnapshot),
		TransactionIDs:   string(txIDs),
		ExpenseIDs:       string(expIDs),
		Notes:            req.Notes,
		SubmittedAt:      time.Now(),
	}

	if err := database.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, toReportResponse(report))
}

// --- GET: /api/submitted-reports ---
func GetSubmittedReports(c *gin.Context) {
	query := database.DB.Where("tenant_id = ?", middleware.TenantID(c))

	if reportDate := c.Query("reportDate"); reportDate != "" {
		query = query.Where("report_date = ?", reportDate)
	}
	if start := c.Query("startDate"); start != "" {
		query = query.Where("report_date >= ?", start)
	}
	if end := c.Query("endDate"); end != "" {
		query = query.Where("report_date <= ?", end)
	}
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var rows []models.SubmittedReport
	if err := query.Order("submitted_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	out := make([]SubmittedReportResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toReportResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// --- GET: /api/submitted-reports/:id ---
// The snapshots stay frozen; the transaction and expense details are
// re-fetched live by the stored ID lists, and any referenced transaction
// voided since submission raises hasVoidedTransactions.
func GetSubmittedReport(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var report models.SubmittedReport
	err := database.DB.
		Where("tenant_id = ? AND id = ?", tenantID, c.Param("id")).
		First(&report).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	resp := toReportResponse(report)

	if len(resp.TransactionIDs) > 0 {
		err := database.DB.
			Preload("Items").
			Preload("Items.Addons").
			Where("tenant_id = ? AND id IN ?", tenantID, resp.TransactionIDs).
			Find(&resp.Transactions).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report transactions"})
			return
		}
	}
	if len(resp.ExpenseIDs) > 0 {
		err := database.DB.
			Where("tenant_id = ? AND id IN ?", tenantID, resp.ExpenseIDs).
			Find(&resp.Expenses).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report expenses"})
			return
		}
	}

	hasVoided := false
	for _, tx := range resp.Transactions {
		if tx.VoidStatus == models.VoidApproved {
			hasVoided = true
			break
		}
	}
	resp.HasVoidedTransactions = &hasVoided

	c.JSON(http.StatusOK, resp)
}

// --- GET: /api/submitted-reports/stats ---
func GetSubmittedReportStats(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var total int64
	if err := database.DB.Model(&models.SubmittedReport{}).Where("tenant_id = ?", tenantID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reports"})
		return
	}

	monthPrefix := time.Now().Format("2006-01")
	var thisMonth int64
	err := database.DB.Model(&models.SubmittedReport{}).
		Where("tenant_id = ? AND report_date LIKE ?", tenantID, monthPrefix+"%").
		Count(&thisMonth).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reports"})
		return
	}

	stats := gin.H{
		"totalReports":     total,
		"reportsThisMonth": thisMonth,
	}

	var latest models.SubmittedReport
	err = database.DB.
		Where("tenant_id = ?", tenantID).
		Order("submitted_at desc").
		First(&latest).Error
	if err == nil {
		stats["latestReportDate"] = latest.ReportDate
		stats["latestSubmittedAt"] = latest.SubmittedAt
	}

	c.JSON(http.StatusOK, stats)
}
