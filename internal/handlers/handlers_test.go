package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/middleware"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps database.DB for an in-memory sqlite with the full
// schema. The shared-cache DSN keeps the database alive across the pooled
// connections for the duration of one test.
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	database.DB = db
}

// call runs one handler with an authenticated test context.
func call(t *testing.T, handler gin.HandlerFunc, method, target string, body interface{}, tenantID string, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	c.Set(middleware.CtxTenantID, tenantID)
	c.Set(middleware.CtxUserID, "user-1")
	c.Set(middleware.CtxRole, models.RoleAdmin)

	handler(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestCategoryTenantIsolation(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Category{ID: "c1", TenantID: "t1", Name: "Drinks"})
	database.DB.Create(&models.Category{ID: "c2", TenantID: "t2", Name: "Snacks"})

	w := call(t, GetCategories, "GET", "/categories", nil, "t1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var categories []models.Category
	decode(t, w, &categories)
	if len(categories) != 1 || categories[0].ID != "c1" {
		t.Fatalf("tenant t1 must only see its own categories, got %+v", categories)
	}

	// t2 asking for t1's row by ID reads as not found
	w = call(t, GetCategory, "GET", "/categories/c1", nil, "t2", gin.Params{{Key: "id", Value: "c1"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrong-tenant lookup, got %d", w.Code)
	}
}

func TestAddCategoryDuplicateIDConflict(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Category{ID: "c1", TenantID: "t1", Name: "Drinks"})

	w := call(t, AddCategory, "POST", "/categories",
		map[string]interface{}{"id": "c1", "name": "Hijacked"}, "t1", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// The existing row is unchanged
	var category models.Category
	if err := database.DB.First(&category, "id = ?", "c1").Error; err != nil {
		t.Fatalf("fetch category: %v", err)
	}
	if category.Name != "Drinks" {
		t.Fatalf("existing row must be untouched, got name %q", category.Name)
	}
}

func TestUpdateAndDeleteMissingCategory(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Category{ID: "c1", TenantID: "t2", Name: "Snacks"})

	w := call(t, UpdateCategory, "PATCH", "/categories/nope",
		map[string]interface{}{"name": "X"}, "t1", gin.Params{{Key: "id", Value: "nope"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 updating missing row, got %d", w.Code)
	}

	// Same for a row owned by another tenant
	w = call(t, DeleteCategory, "DELETE", "/categories/c1", nil, "t1", gin.Params{{Key: "id", Value: "c1"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting wrong-tenant row, got %d", w.Code)
	}

	var count int64
	database.DB.Model(&models.Category{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected the other tenant's row to survive, count=%d", count)
	}
}

func TestProductSizeAssociationReplace(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Size{ID: "s1", TenantID: "t1", Name: "Small", PriceModifier: -10})
	database.DB.Create(&models.Size{ID: "s2", TenantID: "t1", Name: "Large", PriceModifier: 15})
	product := models.Product{ID: "p1", TenantID: "t1", Name: "Latte", Price: 100}
	database.DB.Create(&product)
	database.DB.Model(&product).Association("Sizes").Replace([]models.Size{
		{ID: "s1", TenantID: "t1", Name: "Small", PriceModifier: -10},
		{ID: "s2", TenantID: "t1", Name: "Large", PriceModifier: 15},
	})

	// Omitting sizeIds leaves the associations alone
	w := call(t, UpdateProduct, "PATCH", "/products/p1",
		map[string]interface{}{"name": "Cafe Latte"}, "t1", gin.Params{{Key: "id", Value: "p1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.Product
	decode(t, w, &updated)
	if updated.Name != "Cafe Latte" {
		t.Fatalf("expected renamed product, got %q", updated.Name)
	}
	if len(updated.Sizes) != 2 {
		t.Fatalf("omitted sizeIds must not touch associations, got %d sizes", len(updated.Sizes))
	}

	// An explicit empty list clears them all
	w = call(t, UpdateProduct, "PATCH", "/products/p1",
		map[string]interface{}{"sizeIds": []string{}}, "t1", gin.Params{{Key: "id", Value: "p1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &updated)
	if len(updated.Sizes) != 0 {
		t.Fatalf("empty sizeIds must clear associations, got %d sizes", len(updated.Sizes))
	}
}

func TestAddProductRejectsForeignTenantSize(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Size{ID: "s1", TenantID: "t2", Name: "Large", PriceModifier: 15})

	price := 100.0
	w := call(t, AddProduct, "POST", "/products", map[string]interface{}{
		"name":    "Latte",
		"price":   price,
		"sizeIds": []string{"s1"},
	}, "t1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for foreign-tenant size, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBulkInventoryWriteIsAtomic(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.InventoryItem{ID: "beans", TenantID: "t1", Name: "Coffee Beans", Unit: "kg"})

	w := call(t, AddInventoryRecordsBulk, "POST", "/inventory/records/bulk", map[string]interface{}{
		"records": []map[string]interface{}{
			{"inventoryItemId": "beans", "quantity": 10},
			{"inventoryItemId": "beans", "quantity": -3}, // invalid tuple
			{"inventoryItemId": "beans", "quantity": 7},
		},
	}, "t1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid tuple, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	database.DB.Model(&models.InventoryRecord{}).Count(&count)
	if count != 0 {
		t.Fatalf("bulk write must be all-or-nothing, found %d persisted records", count)
	}
}

func TestBulkInventoryWriteSuccess(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.InventoryItem{ID: "beans", TenantID: "t1", Name: "Coffee Beans", Unit: "kg"})
	database.DB.Create(&models.InventoryItem{ID: "cups", TenantID: "t1", Name: "Paper Cups", Unit: "pcs"})

	w := call(t, AddInventoryRecordsBulk, "POST", "/inventory/records/bulk", map[string]interface{}{
		"records": []map[string]interface{}{
			{"inventoryItemId": "beans", "quantity": 10, "recordDate": "2024-01-05"},
			{"inventoryItemId": "cups", "quantity": 200, "recordDate": "2024-01-05"},
		},
	}, "t1", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	database.DB.Model(&models.InventoryRecord{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 records, found %d", count)
	}
}

func TestLatestInventoryAsOfDate(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.InventoryItem{ID: "beans", TenantID: "t1", Name: "Coffee Beans", Unit: "kg"})
	database.DB.Create(&models.InventoryRecord{
		ID: "r1", TenantID: "t1", InventoryItemID: "beans", Quantity: 10,
		RecordDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local),
	})
	database.DB.Create(&models.InventoryRecord{
		ID: "r2", TenantID: "t1", InventoryItemID: "beans", Quantity: 7,
		RecordDate: time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local),
	})

	w := call(t, GetLatestInventory, "GET", "/inventory/latest?date=2024-01-03", nil, "t1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view []struct {
		Item           models.InventoryItem `json:"item"`
		LatestQuantity *float64             `json:"latestQuantity"`
	}
	decode(t, w, &view)
	if len(view) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(view))
	}
	if view[0].LatestQuantity == nil || *view[0].LatestQuantity != 10 {
		t.Fatalf("expected quantity 10 as of Jan 3, got %v", view[0].LatestQuantity)
	}
}

func TestCreateTransactionComputesTotals(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Product{ID: "p1", TenantID: "t1", Name: "Latte", Price: 100})
	database.DB.Create(&models.Size{ID: "s1", TenantID: "t1", Name: "Large", PriceModifier: 20})
	database.DB.Create(&models.Addon{ID: "a1", TenantID: "t1", Name: "Extra Shot", PriceModifier: 10})

	cash := 300.0
	w := call(t, CreateTransaction, "POST", "/transactions", map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": "p1", "sizeId": "s1", "quantity": 2, "addonIds": []string{"a1"}},
		},
		"paymentMethod": "cash",
		"cashReceived":  cash,
	}, "t1", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var tx models.Transaction
	decode(t, w, &tx)

	// (100 + 20 + 10) * 2
	if tx.Total != 260 {
		t.Fatalf("expected total 260, got %v", tx.Total)
	}
	if tx.PaymentStatus != models.PaymentCompleted {
		t.Fatalf("expected default status COMPLETED, got %q", tx.PaymentStatus)
	}
	if tx.Change == nil || *tx.Change != 40 {
		t.Fatalf("expected change 40, got %v", tx.Change)
	}
	if len(tx.Items) != 1 || tx.Items[0].ProductName != "Latte" || tx.Items[0].Subtotal != 260 {
		t.Fatalf("unexpected items: %+v", tx.Items)
	}
}

func TestCreateTransactionDuplicateID(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Product{ID: "p1", TenantID: "t1", Name: "Latte", Price: 100})
	database.DB.Create(&models.Transaction{ID: "tx1", TenantID: "t1", Total: 100, PaymentStatus: models.PaymentCompleted, TransactionTime: time.Now()})

	w := call(t, CreateTransaction, "POST", "/transactions", map[string]interface{}{
		"id": "tx1",
		"items": []map[string]interface{}{
			{"productId": "p1", "quantity": 1},
		},
		"paymentMethod": "cash",
	}, "t1", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVoidTransactionValidation(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Transaction{ID: "tx1", TenantID: "t1", Total: 100, PaymentStatus: models.PaymentCompleted, TransactionTime: time.Now()})

	w := call(t, VoidTransaction, "PATCH", "/transactions/tx1/void",
		map[string]interface{}{"status": "maybe"}, "t1", gin.Params{{Key: "id", Value: "tx1"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bogus status, got %d", w.Code)
	}

	w = call(t, VoidTransaction, "PATCH", "/transactions/tx1/void",
		map[string]interface{}{"status": models.VoidApproved}, "t1", gin.Params{{Key: "id", Value: "tx1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var tx models.Transaction
	database.DB.First(&tx, "id = ?", "tx1")
	if tx.VoidStatus != models.VoidApproved {
		t.Fatalf("expected void status approved, got %q", tx.VoidStatus)
	}
}

func TestSubmittedReportVoidReconciliation(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Transaction{ID: "tx1", TenantID: "t1", Total: 100, PaymentStatus: models.PaymentCompleted, TransactionTime: time.Now()})

	// Submit a report covering tx1, snapshot frozen at 100
	w := call(t, CreateSubmittedReport, "POST", "/submitted-reports", map[string]interface{}{
		"id":               "rep1",
		"reportDate":       "2024-06-15",
		"periodStart":      time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		"periodEnd":        time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC),
		"salesSnapshot":    map[string]interface{}{"totalAmount": 100},
		"expensesSnapshot": map[string]interface{}{"totalAmount": 0},
		"summarySnapshot":  map[string]interface{}{"profit": 100},
		"transactionIds":   []string{"tx1"},
	}, "t1", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Before any void, the flag is false
	w = call(t, GetSubmittedReport, "GET", "/submitted-reports/rep1", nil, "t1", gin.Params{{Key: "id", Value: "rep1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp SubmittedReportResponse
	decode(t, w, &resp)
	if resp.HasVoidedTransactions == nil || *resp.HasVoidedTransactions {
		t.Fatalf("expected hasVoidedTransactions=false, got %v", resp.HasVoidedTransactions)
	}

	// Void the referenced transaction after submission
	database.DB.Model(&models.Transaction{}).Where("id = ?", "tx1").Update("void_status", models.VoidApproved)

	w = call(t, GetSubmittedReport, "GET", "/submitted-reports/rep1", nil, "t1", gin.Params{{Key: "id", Value: "rep1"}})
	decode(t, w, &resp)
	if resp.HasVoidedTransactions == nil || !*resp.HasVoidedTransactions {
		t.Fatalf("expected hasVoidedTransactions=true, got %v", resp.HasVoidedTransactions)
	}

	// The snapshot itself never moves
	var snapshot map[string]interface{}
	if err := json.Unmarshal(resp.SalesSnapshot, &snapshot); err != nil {
		t.Fatalf("decode sales snapshot: %v", err)
	}
	if snapshot["totalAmount"] != float64(100) {
		t.Fatalf("snapshot must stay frozen at 100, got %v", snapshot["totalAmount"])
	}
}

func TestSubmittedReportStats(t *testing.T) {
	setupTestDB(t)

	thisMonth := time.Now().Format("2006-01") + "-02"
	database.DB.Create(&models.SubmittedReport{
		ID: "rep1", TenantID: "t1", ReportDate: thisMonth,
		TransactionIDs: "[]", ExpenseIDs: "[]", SubmittedAt: time.Now(),
	})
	database.DB.Create(&models.SubmittedReport{
		ID: "rep2", TenantID: "t1", ReportDate: "2020-01-15",
		TransactionIDs: "[]", ExpenseIDs: "[]", SubmittedAt: time.Now().Add(-time.Hour),
	})
	database.DB.Create(&models.SubmittedReport{
		ID: "rep3", TenantID: "t2", ReportDate: thisMonth,
		TransactionIDs: "[]", ExpenseIDs: "[]", SubmittedAt: time.Now(),
	})

	w := call(t, GetSubmittedReportStats, "GET", "/submitted-reports/stats", nil, "t1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats struct {
		TotalReports     int64  `json:"totalReports"`
		ReportsThisMonth int64  `json:"reportsThisMonth"`
		LatestReportDate string `json:"latestReportDate"`
	}
	decode(t, w, &stats)
	if stats.TotalReports != 2 {
		t.Fatalf("expected 2 reports for t1, got %d", stats.TotalReports)
	}
	if stats.ReportsThisMonth != 1 {
		t.Fatalf("expected 1 report this month, got %d", stats.ReportsThisMonth)
	}
	if stats.LatestReportDate != thisMonth {
		t.Fatalf("expected latest report %s, got %s", thisMonth, stats.LatestReportDate)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	setupTestDB(t)

	now := time.Now()
	database.DB.Create(&models.Transaction{
		ID: "tx1", TenantID: "t1", Total: 100, PaymentMethod: "cash",
		PaymentStatus: models.PaymentCompleted, TransactionTime: now,
	})
	database.DB.Create(&models.Transaction{
		ID: "tx2", TenantID: "t1", Total: 50, PaymentMethod: "cash",
		PaymentStatus: models.PaymentPending, TransactionTime: now,
	})
	database.DB.Create(&models.Transaction{
		ID: "tx3", TenantID: "t2", Total: 999, PaymentMethod: "cash",
		PaymentStatus: models.PaymentCompleted, TransactionTime: now,
	})
	database.DB.Create(&models.Expense{
		ID: "e1", TenantID: "t1", Description: "Milk", Amount: 20,
		Category: "SUPPLIES", ExpenseDate: now,
	})

	w := call(t, GetAnalytics, "GET", "/reports/analytics?period=daily", nil, "t1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Period    string `json:"period"`
		Analytics struct {
			TotalSales        float64 `json:"totalSales"`
			TransactionCount  int     `json:"transactionCount"`
			AverageOrderValue float64 `json:"averageOrderValue"`
			TotalExpenses     float64 `json:"totalExpenses"`
			GrossProfit       float64 `json:"grossProfit"`
		} `json:"analytics"`
	}
	decode(t, w, &resp)

	if resp.Analytics.TotalSales != 100 {
		t.Fatalf("expected total sales 100, got %v", resp.Analytics.TotalSales)
	}
	if resp.Analytics.TransactionCount != 1 {
		t.Fatalf("expected 1 completed transaction, got %d", resp.Analytics.TransactionCount)
	}
	if resp.Analytics.AverageOrderValue != 100 {
		t.Fatalf("expected average 100, got %v", resp.Analytics.AverageOrderValue)
	}
	if resp.Analytics.TotalExpenses != 20 {
		t.Fatalf("expected expenses 20, got %v", resp.Analytics.TotalExpenses)
	}
	if resp.Analytics.GrossProfit != 80 {
		t.Fatalf("expected gross profit 80, got %v", resp.Analytics.GrossProfit)
	}
}

func TestAnalyticsBadPeriod(t *testing.T) {
	setupTestDB(t)

	w := call(t, GetAnalytics, "GET", "/reports/analytics?period=fortnightly", nil, "t1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown period, got %d", w.Code)
	}
}

func TestGetTenantBySlug(t *testing.T) {
	setupTestDB(t)

	database.DB.Create(&models.Tenant{ID: "t1", Name: "Nine Cafe", Slug: "nine-cafe", Active: true})
	database.DB.Create(&models.Tenant{ID: "t2", Name: "Closed Shop", Slug: "closed-shop", Active: false})

	w := call(t, GetTenantBySlug, "GET", "/tenants/slug/nine-cafe", nil, "", gin.Params{{Key: "slug", Value: "nine-cafe"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var tenant models.Tenant
	decode(t, w, &tenant)
	if tenant.ID != "t1" {
		t.Fatalf("expected tenant t1, got %+v", tenant)
	}

	// Inactive stores answer like missing ones
	w = call(t, GetTenantBySlug, "GET", "/tenants/slug/closed-shop", nil, "", gin.Params{{Key: "slug", Value: "closed-shop"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for inactive store, got %d", w.Code)
	}
}
