package main

import (
	"log"
	"os"
	"time"

	"go-pos-suite/internal/database"
	"go-pos-suite/internal/handlers"
	"go-pos-suite/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"}, // Admin dashboard dev server
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	// PUBLIC: the cashier app resolves its store before anyone logs in
	r.GET("/tenants/slug/:slug", handlers.GetTenantBySlug)
	r.POST("/auth/login", handlers.Login)
	r.Static("/uploads", "./uploads")

	r.GET("/api/system/status", handlers.GetSystemStatus)

	// --- FEATURE FLAG: Store Provisioning ---
	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/tenants/me", handlers.GetMyTenant)

		// CATALOG READS (staff and admin)
		catalogRead := api.Group("/", middleware.Authorize(middleware.ResCatalog, middleware.ActRead))
		{
			catalogRead.GET("/categories", handlers.GetCategories)
			catalogRead.GET("/categories/:id", handlers.GetCategory)
			catalogRead.GET("/products", handlers.GetProducts)
			catalogRead.GET("/products/:id", handlers.GetProduct)
			catalogRead.GET("/sizes", handlers.GetSizes)
			catalogRead.GET("/sizes/:id", handlers.GetSize)
			catalogRead.GET("/addons", handlers.GetAddons)
			catalogRead.GET("/addons/:id", handlers.GetAddon)
		}

		// CATALOG WRITES (admin only, per the policy table)
		catalogWrite := api.Group("/", middleware.Authorize(middleware.ResCatalog, middleware.ActWrite))
		{
			catalogWrite.POST("/categories", handlers.AddCategory)
			catalogWrite.PATCH("/categories/:id", handlers.UpdateCategory)
			catalogWrite.DELETE("/categories/:id", handlers.DeleteCategory)
			catalogWrite.POST("/products", handlers.AddProduct)
			catalogWrite.PATCH("/products/:id", handlers.UpdateProduct)
			catalogWrite.DELETE("/products/:id", handlers.DeleteProduct)
			catalogWrite.POST("/sizes", handlers.AddSize)
			catalogWrite.PATCH("/sizes/:id", handlers.UpdateSize)
			catalogWrite.DELETE("/sizes/:id", handlers.DeleteSize)
			catalogWrite.POST("/addons", handlers.AddAddon)
			catalogWrite.PATCH("/addons/:id", handlers.UpdateAddon)
			catalogWrite.DELETE("/addons/:id", handlers.DeleteAddon)
		}

		// TRANSACTIONS
		api.GET("/transactions", middleware.Authorize(middleware.ResTransactions, middleware.ActRead), handlers.GetTransactions)
		api.GET("/transactions/stats", middleware.Authorize(middleware.ResTransactions, middleware.ActRead), handlers.GetTransactionStats)
		api.GET("/transactions/:id", middleware.Authorize(middleware.ResTransactions, middleware.ActRead), handlers.GetTransaction)
		api.POST("/transactions", middleware.Authorize(middleware.ResTransactions, middleware.ActWrite), handlers.CreateTransaction)
		api.PATCH("/transactions/:id/void", middleware.Authorize(middleware.ResTransactions, middleware.ActVoid), handlers.VoidTransaction)

		// EXPENSES
		api.GET("/expenses", middleware.Authorize(middleware.ResExpenses, middleware.ActRead), handlers.GetExpenses)
		api.GET("/expenses/:id", middleware.Authorize(middleware.ResExpenses, middleware.ActRead), handlers.GetExpense)
		api.POST("/expenses", middleware.Authorize(middleware.ResExpenses, middleware.ActWrite), handlers.AddExpense)
		api.PATCH("/expenses/:id", middleware.Authorize(middleware.ResExpenses, middleware.ActWrite), handlers.UpdateExpense)
		api.DELETE("/expenses/:id", middleware.Authorize(middleware.ResExpenses, middleware.ActWrite), handlers.DeleteExpense)

		// INVENTORY
		invRead := api.Group("/inventory", middleware.Authorize(middleware.ResInventory, middleware.ActRead))
		{
			invRead.GET("/items", handlers.GetInventoryItems)
			invRead.GET("/records", handlers.GetInventoryRecords)
			invRead.GET("/latest", handlers.GetLatestInventory)
			invRead.GET("/stats", handlers.GetInventoryStats)
		}
		invWrite := api.Group("/inventory", middleware.Authorize(middleware.ResInventory, middleware.ActWrite))
		{
			invWrite.POST("/items", handlers.AddInventoryItem)
			invWrite.PATCH("/items/:id", handlers.UpdateInventoryItem)
			invWrite.DELETE("/items/:id", handlers.DeleteInventoryItem)
			invWrite.POST("/records", handlers.AddInventoryRecord)
			invWrite.POST("/records/bulk", handlers.AddInventoryRecordsBulk)
		}

		// SUBMITTED REPORTS
		srRead := api.Group("/submitted-reports", middleware.Authorize(middleware.ResSubmittedReports, middleware.ActRead))
		{
			srRead.GET("", handlers.GetSubmittedReports)
			srRead.GET("/stats", handlers.GetSubmittedReportStats)
			srRead.GET("/:id", handlers.GetSubmittedReport)
		}
		api.POST("/submitted-reports", middleware.Authorize(middleware.ResSubmittedReports, middleware.ActWrite), handlers.CreateSubmittedReport)

		// ADMIN ONLY
		api.GET("/reports/analytics", middleware.Authorize(middleware.ResAnalytics, middleware.ActRead), handlers.GetAnalytics)
		api.POST("/upload", middleware.Authorize(middleware.ResUploads, middleware.ActWrite), handlers.UploadImage)
		api.POST("/ask", middleware.Authorize(middleware.ResAssistant, middleware.ActWrite), handlers.AskAI)
	}

	// --- DEPLOYMENT: Serve the admin dashboard build ---
	r.Static("/assets", "./web/assets")
	r.StaticFile("/vite.svg", "./web/vite.svg")

	// SPA Catch-All: a refresh on "/dashboard" still serves index.html so
	// the frontend router can take over.
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
