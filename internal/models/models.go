package models

import (
	"time"
)

// Role values for User.Role
const (
	RoleAdmin   = "ADMIN"
	RoleCashier = "CASHIER"
)

// Payment status values for Transaction.PaymentStatus
const (
	PaymentCompleted = "COMPLETED"
	PaymentPending   = "PENDING"
	PaymentCancelled = "CANCELLED"
)

// Void status values for Transaction.VoidStatus
const (
	VoidNone      = ""
	VoidRequested = "requested"
	VoidApproved  = "approved"
	VoidRejected  = "rejected"
)

// Tenant - one isolated store. Every other row hangs off TenantID.
type Tenant struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:100" json:"name"`
	Slug           string    `gorm:"uniqueIndex;size:60" json:"slug"`
	PrimaryColor   string    `gorm:"size:20" json:"primaryColor"`
	SecondaryColor string    `gorm:"size:20" json:"secondaryColor"`
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

// User - the person behind the counter (or the dashboard)
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID     string    `gorm:"index:idx_users_tenant_username,unique;size:36" json:"tenantId"`
	Username     string    `gorm:"index:idx_users_tenant_username,unique;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Role         string    `gorm:"size:20" json:"role"` // ADMIN or CASHIER
	CreatedAt    time.Time `json:"createdAt"`
}

// Category - menu grouping, ordered by Sequence on the cashier screen
type Category struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID string `gorm:"index;size:36" json:"tenantId"`
	Name     string `gorm:"size:100" json:"name"`
	Sequence int    `json:"sequence"`
}

// Product - catalog entry; Sizes and Addons adjust the base price
type Product struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	TenantID   string  `gorm:"index;size:36" json:"tenantId"`
	CategoryID string  `gorm:"index;size:36" json:"categoryId"`
	Name       string  `gorm:"size:100" json:"name"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"imageUrl"`
	Sizes      []Size  `gorm:"many2many:product_sizes" json:"sizes"`
	Addons     []Addon `gorm:"many2many:product_addons" json:"addons"`
}

// Size - price modifier, signed (a "small" can subtract)
type Size struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	TenantID      string  `gorm:"index;size:36" json:"tenantId"`
	Name          string  `gorm:"size:50" json:"name"`
	PriceModifier float64 `json:"priceModifier"`
}

// Addon - same shape as Size, tracked separately
type Addon struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	TenantID      string  `gorm:"index;size:36" json:"tenantId"`
	Name          string  `gorm:"size:50" json:"name"`
	PriceModifier float64 `json:"priceModifier"`
}

// Transaction - a sale header
type Transaction struct {
	ID              string            `gorm:"primaryKey;size:36" json:"id"`
	TenantID        string            `gorm:"index;size:36" json:"tenantId"`
	UserID          string            `gorm:"size:36" json:"userId"`
	Subtotal        float64           `json:"subtotal"`
	Total           float64           `json:"total"`
	PaymentMethod   string            `gorm:"size:30" json:"paymentMethod"` // cash, card, ewallet
	PaymentStatus   string            `gorm:"size:20;index" json:"paymentStatus"`
	CashReceived    *float64          `json:"cashReceived,omitempty"`
	Change          *float64          `json:"change,omitempty"`
	ReferenceNumber string            `gorm:"size:60" json:"referenceNumber,omitempty"`
	VoidStatus      string            `gorm:"size:20" json:"voidStatus"`
	TransactionTime time.Time         `gorm:"index" json:"transactionTime"`
	Items           []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

// TransactionItem - one receipt line, names and prices frozen at sale time
type TransactionItem struct {
	ID            string                 `gorm:"primaryKey;size:36" json:"id"`
	TransactionID string                 `gorm:"index;size:36" json:"transactionId"`
	ProductID     string                 `gorm:"size:36" json:"productId"`
	ProductName   string                 `gorm:"size:100" json:"productName"`
	SizeID        string                 `gorm:"size:36" json:"sizeId,omitempty"`
	SizeName      string                 `gorm:"size:50" json:"sizeName,omitempty"`
	Quantity      int                    `json:"quantity"`
	Subtotal      float64                `json:"subtotal"`
	Addons        []TransactionItemAddon `gorm:"foreignKey:TransactionItemID" json:"addons,omitempty"`
}

// TransactionItemAddon - addon snapshot attached to a receipt line
type TransactionItemAddon struct {
	ID                string  `gorm:"primaryKey;size:36" json:"id"`
	TransactionItemID string  `gorm:"index;size:36" json:"transactionItemId"`
	AddonID           string  `gorm:"size:36" json:"addonId"`
	AddonName         string  `gorm:"size:50" json:"addonName"`
	Price             float64 `json:"price"`
}

// Expense - money going out
type Expense struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID    string    `gorm:"index;size:36" json:"tenantId"`
	UserID      string    `gorm:"size:36" json:"userId"`
	Description string    `gorm:"size:255" json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `gorm:"size:30" json:"category"` // SUPPLIES, UTILITIES, SALARY, RENT, OTHER
	ExpenseDate time.Time `gorm:"index" json:"expenseDate"`
	ReceiptURL  string    `json:"receiptUrl,omitempty"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
}

// InventoryItem - a thing we count (beans, cups, milk)
type InventoryItem struct {
	ID            string   `gorm:"primaryKey;size:36" json:"id"`
	TenantID      string   `gorm:"index;size:36" json:"tenantId"`
	Name          string   `gorm:"size:100" json:"name"`
	Category      string   `gorm:"size:50" json:"category"`
	Unit          string   `gorm:"size:20" json:"unit"` // kg, pcs, liters
	MinStockLevel *float64 `json:"minStockLevel,omitempty"`
}

// InventoryRecord - point-in-time count. Append-only: rows are never
// updated, the current quantity is the newest record per item.
type InventoryRecord struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID        string    `gorm:"index;size:36" json:"tenantId"`
	InventoryItemID string    `gorm:"index;size:36" json:"inventoryItemId"`
	UserID          string    `gorm:"size:36" json:"userId"`
	Quantity        float64   `json:"quantity"`
	RecordDate      time.Time `gorm:"index" json:"recordDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SubmittedReport - frozen end-of-shift snapshot. The three snapshot
// columns are stored exactly as the client computed them; later edits
// to the underlying transactions never rewrite them.
type SubmittedReport struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID         string    `gorm:"index;size:36" json:"tenantId"`
	UserID           string    `gorm:"size:36;index" json:"userId"`
	ReportDate       string    `gorm:"size:10;index" json:"reportDate"` // YYYY-MM-DD
	PeriodStart      time.Time `json:"periodStart"`
	PeriodEnd        time.Time `json:"periodEnd"`
	SalesSnapshot    string    `gorm:"type:text" json:"-"`
	ExpensesSnapshot string    `gorm:"type:text" json:"-"`
	SummarySnapshot  string    `gorm:"type:text" json:"-"`
	TransactionIDs   string    `gorm:"type:text" json:"-"` // JSON array of IDs
	ExpenseIDs       string    `gorm:"type:text" json:"-"` // JSON array of IDs
	Notes            string    `gorm:"type:text" json:"notes,omitempty"`
	SubmittedAt      time.Time `json:"submittedAt"`
}
