package controllers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/rizkypratama/notice-board/models"
	"github.com/rizkypratama/notice-board/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// bcryptCost mengikuti salt rounds yang dipakai di data lama
const bcryptCost = 12

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return errors.New("username must be between 3 and 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username may only contain letters, numbers and underscores")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// Register user baru
func (ac *AuthController) Register(c *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := validateUsername(req.Username); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.User
	if err := ac.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("username already exists"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.ErrorLogger.Printf("Register lookup error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		utils.ErrorLogger.Printf("Password hash error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		IsAdmin:      req.IsAdmin,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		// Race dengan register lain bisa tetap kena unique constraint
		utils.RespondError(c, http.StatusConflict, errors.New("username already exists"))
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (admin=%v)", user.Username, user.IsAdmin)

	utils.RespondJSON(c, http.StatusCreated, "Registration successful", gin.H{
		"user": user,
	})
}

// Login -> return JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Pesan error harus sama untuk user tidak ada dan password salah
	invalidCredentials := errors.New("invalid username or password")

	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, invalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, invalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username)
	if err != nil {
		utils.ErrorLogger.Printf("Token generation error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s", user.Username)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"access_token": token,
		"user":         user,
	})
}

// Me -> profil user dari JWT, dibaca ulang dari database
func (ac *AuthController) Me(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile retrieved", gin.H{
		"user": user,
	})
}

// Logout stateless: token tetap valid sampai expire, client yang membuangnya
func (ac *AuthController) Logout(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

func currentUserID(c *gin.Context) (uint, error) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		return 0, errors.New("user id not found in context")
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		return 0, errors.New("invalid user id type")
	}
	return userID, nil
}
