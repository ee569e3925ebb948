package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rizkypratama/notice-board/models"
	"github.com/rizkypratama/notice-board/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// notificationResponse adalah bentuk join eksplisit yang dikirim ke client:
// notifikasi + author {id, username} + daftar attachment
type notificationResponse struct {
	models.Notification
	Author models.PublicUser `json:"author"`
}

func toResponse(n models.Notification) notificationResponse {
	if n.Attachments == nil {
		n.Attachments = []models.Attachment{}
	}
	return notificationResponse{Notification: n, Author: n.Author.Public()}
}

func toResponseList(notifs []models.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, toResponse(n))
	}
	return out
}

func parsePagination(c *gin.Context) (page, perPage int, err error) {
	page = 1
	perPage = 10

	if v := c.Query("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}
	if v := c.Query("per_page"); v != "" {
		perPage, err = strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 100 {
			return 0, 0, errors.New("per_page must be between 1 and 100")
		}
	}
	return page, perPage, nil
}

func totalPages(total int64, perPage int) int64 {
	return (total + int64(perPage) - 1) / int64(perPage)
}

// applyFilters menambahkan filter priority dan search ke query.
// Search mencocokkan substring case-insensitive di title ATAU content.
func applyFilters(c *gin.Context, query *gorm.DB) (*gorm.DB, error) {
	if priority := c.Query("priority"); priority != "" {
		if !models.IsValidPriority(priority) {
			return nil, errors.New("invalid priority")
		}
		query = query.Where("priority = ?", priority)
	}

	if search := c.Query("search"); search != "" {
		if len(search) > 100 {
			return nil, errors.New("search term too long")
		}
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	return query, nil
}

func (nc *NotificationController) list(c *gin.Context, publishedOnly bool) {
	page, perPage, err := parsePagination(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	query := nc.DB.Model(&models.Notification{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	query, err = applyFilters(c, query)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Total dihitung sebelum offset/limit
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.ErrorLogger.Printf("Notification count error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	var notifs []models.Notification
	if err := query.Preload("Author").Preload("Attachments").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&notifs).Error; err != nil {
		utils.ErrorLogger.Printf("Notification list error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications retrieved", gin.H{
		"notifications": toResponseList(notifs),
		"total":         total,
		"pages":         totalPages(total, perPage),
		"current_page":  page,
		"per_page":      perPage,
	})
}

// GetAllNotifications -> list publik, hanya yang published
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	nc.list(c, true)
}

// GetAdminNotifications -> list admin, termasuk draft
func (nc *NotificationController) GetAdminNotifications(c *gin.Context) {
	nc.list(c, false)
}

// GetNotificationByID -> 404 untuk id tidak ada ATAU belum published
func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification ID"))
		return
	}

	var notif models.Notification
	if err := nc.DB.Preload("Author").Preload("Attachments").
		Where("id = ? AND is_published = ?", id, true).
		First(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification detail", gin.H{
		"notification": toResponse(notif),
	})
}

// CreateNotification (admin)
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type request struct {
		Title       string `json:"title" binding:"required"`
		Content     string `json:"content" binding:"required"`
		Priority    string `json:"priority"`
		IsPublished *bool  `json:"isPublished"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if len(req.Title) > 200 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("title must not exceed 200 characters"))
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(req.Priority) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid priority"))
		return
	}

	authorID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}

	notif := models.Notification{
		Title:       req.Title,
		Content:     req.Content,
		Priority:    req.Priority,
		AuthorID:    authorID,
		IsPublished: isPublished,
	}

	if err := nc.DB.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("Notification create error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	// Baca ulang beserta author dan attachment untuk respons lengkap
	if err := nc.DB.Preload("Author").Preload("Attachments").
		First(&notif, notif.ID).Error; err != nil {
		utils.ErrorLogger.Printf("Notification reload error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.InfoLogger.Printf("Notification created: %q (id=%d)", notif.Title, notif.ID)

	utils.RespondJSON(c, http.StatusCreated, "Notification created", gin.H{
		"notification": toResponse(notif),
	})
}

// UpdateNotification partial update (admin)
func (nc *NotificationController) UpdateNotification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification ID"))
		return
	}

	type request struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		Priority    *string `json:"priority"`
		IsPublished *bool   `json:"isPublished"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}

	if req.Title != nil {
		if *req.Title == "" || len(*req.Title) > 200 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("title must be between 1 and 200 characters"))
			return
		}
		notif.Title = *req.Title
	}
	if req.Content != nil {
		if *req.Content == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("content must not be empty"))
			return
		}
		notif.Content = *req.Content
	}
	if req.Priority != nil {
		if !models.IsValidPriority(*req.Priority) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid priority"))
			return
		}
		notif.Priority = *req.Priority
	}
	if req.IsPublished != nil {
		notif.IsPublished = *req.IsPublished
	}

	if err := nc.DB.Save(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("Notification update error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	if err := nc.DB.Preload("Author").Preload("Attachments").
		First(&notif, notif.ID).Error; err != nil {
		utils.ErrorLogger.Printf("Notification reload error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification updated", gin.H{
		"notification": toResponse(notif),
	})
}

// DeleteNotification (admin) -> attachment rows ikut terhapus,
// file fisiknya dibersihkan best-effort
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification ID"))
		return
	}

	var notif models.Notification
	if err := nc.DB.Preload("Attachments").First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}

	for _, att := range notif.Attachments {
		if err := os.Remove(att.FilePath); err != nil && !os.IsNotExist(err) {
			utils.ErrorLogger.Printf("Failed to remove attachment file %s: %v", att.FilePath, err)
		}
	}
	if len(notif.Attachments) > 0 {
		if err := nc.DB.Where("notification_id = ?", notif.ID).Delete(&models.Attachment{}).Error; err != nil {
			utils.ErrorLogger.Printf("Attachment cascade error: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
			return
		}
	}

	if err := nc.DB.Delete(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("Notification delete error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.InfoLogger.Printf("Notification deleted: id=%d", notif.ID)
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": notif.ID})
}
