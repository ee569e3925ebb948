package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rizkypratama/notice-board/models"
	"github.com/rizkypratama/notice-board/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetAllUsers -> daftar user dengan pagination (admin)
func (uc *UserController) GetAllUsers(c *gin.Context) {
	page, perPage, err := parsePagination(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var total int64
	if err := uc.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.ErrorLogger.Printf("User count error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	var users []models.User
	if err := uc.DB.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error; err != nil {
		utils.ErrorLogger.Printf("User list error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All users", gin.H{
		"users":        users,
		"total":        total,
		"pages":        totalPages(total, perPage),
		"current_page": page,
		"per_page":     perPage,
	})
}

// GetUserByID (admin)
func (uc *UserController) GetUserByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user ID"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User detail", gin.H{"user": user})
}

// UpdateUser partial update: username, isAdmin, password (admin)
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user ID"))
		return
	}

	type request struct {
		Username *string `json:"username"`
		IsAdmin  *bool   `json:"isAdmin"`
		Password *string `json:"password"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := validateUsername(*req.Username); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}

		var existing models.User
		if err := uc.DB.Where("username = ? AND id != ?", *req.Username, user.ID).
			First(&existing).Error; err == nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("username already exists"))
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Username lookup error: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
			return
		}
		user.Username = *req.Username
	}

	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			utils.ErrorLogger.Printf("Password hash error: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.ErrorLogger.Printf("User update error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User updated", gin.H{"user": user})
}

// DeleteUser (admin) - tidak boleh menghapus akun sendiri,
// notifikasi milik user ikut terhapus
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user ID"))
		return
	}

	callerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if uint(id) == callerID {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cannot delete your own account"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	// SQLite bisa jalan dengan PRAGMA foreign_keys off, jadi cascade
	// notifikasi + attachment dilakukan manual di sini
	var notifIDs []uint
	uc.DB.Model(&models.Notification{}).Where("author_id = ?", user.ID).Pluck("id", &notifIDs)
	if len(notifIDs) > 0 {
		// File fisik dibersihkan best-effort sebelum row-nya dihapus,
		// sama seperti cascade di delete notifikasi
		var attachments []models.Attachment
		uc.DB.Where("notification_id IN ?", notifIDs).Find(&attachments)
		for _, att := range attachments {
			if err := os.Remove(att.FilePath); err != nil && !os.IsNotExist(err) {
				utils.ErrorLogger.Printf("Failed to remove attachment file %s: %v", att.FilePath, err)
			}
		}
		if err := uc.DB.Where("notification_id IN ?", notifIDs).Delete(&models.Attachment{}).Error; err != nil {
			utils.ErrorLogger.Printf("Attachment cascade error: %v", err)
		}
		if err := uc.DB.Where("author_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			utils.ErrorLogger.Printf("Notification cascade error: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
			return
		}
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		utils.ErrorLogger.Printf("User delete error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.InfoLogger.Printf("User deleted: %s (id=%d)", user.Username, user.ID)
	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{"user_id": user.ID})
}
