package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkypratama/notice-board/models"
	"github.com/rizkypratama/notice-board/utils"
	"gorm.io/gorm"
)

// AdminRequired membaca ulang row user dari database, bukan dari klaim
// token, supaya pencabutan hak admin langsung berlaku di request berikutnya.
func AdminRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDInterface, exists := c.Get("user_id")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		userID, ok := userIDInterface.(uint)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id type"))
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil || !user.IsAdmin {
			utils.RespondError(c, http.StatusForbidden, errors.New("admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
