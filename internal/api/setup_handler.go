package api

import (
	"errors"
	"log"
	"net/http"

	"go-board/internal/db"
	"go-board/internal/user"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const defaultAvatar = "/static/images/default-avatar.jpg"

var errSetupDone = errors.New("board already has users")

// SetupRequest creates the board's first account. Avatar is optional.
type SetupRequest struct {
	Username string `json:"username" binding:"required,max=32"`
	Password string `json:"password" binding:"required"`
	Avatar   string `json:"avatar" binding:"max=255"`
}

// SetupHandler bootstraps the admin account that owns the board. It only
// works while the users table is empty; the check and the insert share a
// transaction so two racing setups cannot both succeed.
func SetupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Username (max 32 characters) and password required"}})
			return
		}
		pwHash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Password hash failed"}})
			return
		}
		admin := user.User{
			Username:     req.Username,
			PasswordHash: pwHash,
			Role:         user.RoleAdmin,
			Avatar:       req.Avatar,
		}
		if admin.Avatar == "" {
			admin.Avatar = defaultAvatar
		}

		err = db.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&user.User{}).Count(&count).Error; err != nil {
				return err
			}
			if count != 0 {
				return errSetupDone
			}
			return tx.Create(&admin).Error
		})
		switch {
		case errors.Is(err, errSetupDone):
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Setup not allowed; users already exist"}})
			return
		case err != nil:
			log.Printf("[API] setup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}

		log.Printf("[API] board initialized with admin %q", admin.Username)
		c.JSON(http.StatusCreated, gin.H{
			"id":             admin.ID,
			"username":       admin.Username,
			"role":           admin.Role,
			"avatar":         admin.Avatar,
			"createdAt":      admin.CreatedAt,
			"setup_complete": true,
		})
	}
}
