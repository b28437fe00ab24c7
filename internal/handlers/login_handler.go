package handlers

import (
	"net/http"
	"time"

	"go-pos-suite/internal/auth"
	"go-pos-suite/internal/database"
	"go-pos-suite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TenantID string `json:"tenantId" binding:"required"`
}

func Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Find User in DB, scoped to the tenant the client resolved.
	// Unknown tenant, unknown user and bad password all look the same.
	var user models.User
	if err := database.DB.Where("tenant_id = ? AND username = ?", input.TenantID, input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// 3. Verify Password (Bcrypt)
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// 4. Generate JWT Token carrying user, tenant and role
	token, err := auth.GenerateToken(user.ID, user.TenantID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        user,
	})
}

type RegisterRequest struct {
	StoreName string `json:"storeName" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// Register provisions a new tenant with its first admin. Only mounted when
// ALLOW_REGISTRATION=true.
func Register(c *gin.Context) {
	var input RegisterRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var existing models.Tenant
	if err := database.DB.Where("slug = ?", input.Slug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Store slug already taken"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	tenant := models.Tenant{
		ID:        uuid.NewString(),
		Name:      input.StoreName,
		Slug:      input.Slug,
		Active:    true,
		CreatedAt: time.Now(),
	}
	admin := models.User{
		ID:           uuid.NewString(),
		TenantID:     tenant.ID,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now(),
	}

	// Tenant and its first admin land together or not at all
	tx := database.DB.Begin()
	if err := tx.Create(&tenant).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store"})
		return
	}
	if err := tx.Create(&admin).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin user"})
		return
	}
	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{"message": "Store created successfully!", "tenant": tenant})
}
