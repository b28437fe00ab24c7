package middleware

import (
	"net/http"

	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
)

// Resources the policy table knows about
const (
	ResCatalog          = "catalog"
	ResTransactions     = "transactions"
	ResExpenses         = "expenses"
	ResInventory        = "inventory"
	ResAnalytics        = "analytics"
	ResSubmittedReports = "submitted-reports"
	ResUploads          = "uploads"
	ResAssistant        = "assistant"
)

// Actions
const (
	ActRead  = "read"
	ActWrite = "write"
	ActVoid  = "void"
)

// policyTable maps role -> resource -> action -> allowed. One flat table
// instead of ad-hoc role checks sprinkled across handlers; missing entries
// deny.
var policyTable = map[string]map[string]map[string]bool{
	models.RoleAdmin: {
		ResCatalog:          {ActRead: true, ActWrite: true},
		ResTransactions:     {ActRead: true, ActWrite: true, ActVoid: true},
		ResExpenses:         {ActRead: true, ActWrite: true},
		ResInventory:        {ActRead: true, ActWrite: true},
		ResAnalytics:        {ActRead: true},
		ResSubmittedReports: {ActRead: true, ActWrite: true},
		ResUploads:          {ActWrite: true},
		ResAssistant:        {ActWrite: true},
	},
	models.RoleCashier: {
		ResCatalog:          {ActRead: true},
		ResTransactions:     {ActRead: true, ActWrite: true},
		ResExpenses:         {ActRead: true, ActWrite: true},
		ResInventory:        {ActRead: true, ActWrite: true},
		ResSubmittedReports: {ActRead: true, ActWrite: true},
	},
}

// Allowed answers role x resource x action against the table.
func Allowed(role, resource, action string) bool {
	return policyTable[role][resource][action]
}

// Authorize gates a route group on one policy cell. AuthMiddleware must
// run first so the role is in the context.
func Authorize(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists || !Allowed(role.(string), resource, action) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}
