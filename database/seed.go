package database

import (
	"errors"

	"github.com/rizkypratama/notice-board/models"
	"github.com/rizkypratama/notice-board/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureDefaultAdmin membuat user admin default kalau belum ada.
// Dipanggil sekali saat startup dan aman dipanggil berulang.
func EnsureDefaultAdmin(db *gorm.DB) error {
	var admin models.User
	err := db.Where("username = ?", "admin").First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), 12)
	if err != nil {
		return err
	}

	admin = models.User{
		Username:     "admin",
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Default admin user created: admin / admin123")
	return nil
}
