package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rizkypratama/notice-board/config"
	"github.com/rizkypratama/notice-board/models"
	"github.com/rizkypratama/notice-board/utils"
	"gorm.io/gorm"
)

// Ekstensi file yang boleh diupload: dokumen, gambar, audio, video, arsip
var allowedExtensions = map[string]bool{
	"txt": true, "pdf": true,
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true, "svg": true,
	"mp4": true, "avi": true, "mov": true, "wmv": true, "flv": true, "webm": true,
	"mp3": true, "wav": true, "ogg": true, "aac": true,
	"doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true, "pptx": true,
	"zip": true, "rar": true, "7z": true, "tar": true, "gz": true,
}

func allowedFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	return allowedExtensions[ext]
}

type AttachmentController struct {
	DB *gorm.DB
}

func NewAttachmentController(db *gorm.DB) *AttachmentController {
	return &AttachmentController{DB: db}
}

// Upload file (admin). Field multipart "file", opsional "notification_id".
// Nama penyimpanan dibangkitkan dari UUID supaya bebas collision dan tidak
// membawa path dari client.
func (ac *AttachmentController) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no file selected"))
		return
	}

	if !allowedFile(file.Filename) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file type not allowed"))
		return
	}

	maxSize := config.MaxFileSize()
	if file.Size > maxSize {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("file size must not exceed %dMB", maxSize/(1024*1024)))
		return
	}

	var notificationID *uint
	if v := c.PostForm("notification_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id < 1 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification ID"))
			return
		}
		uid := uint(id)
		notificationID = &uid
	}

	uploadDir := config.UploadPath()
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		utils.ErrorLogger.Printf("Upload dir error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	storageName := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	storagePath := filepath.Join(uploadDir, storageName)

	if err := c.SaveUploadedFile(file, storagePath); err != nil {
		utils.ErrorLogger.Printf("File save error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error saving file"))
		return
	}

	// Setelah titik ini file sudah ada di disk: setiap jalur gagal harus
	// menghapusnya lagi supaya tidak ada file yatim
	cleanup := func() {
		if err := os.Remove(storagePath); err != nil && !os.IsNotExist(err) {
			utils.ErrorLogger.Printf("Failed to clean up %s: %v", storagePath, err)
		}
	}

	if notificationID != nil {
		var notif models.Notification
		if err := ac.DB.First(&notif, *notificationID).Error; err != nil {
			cleanup()
			utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
			return
		}
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected, err := mimetype.DetectFile(storagePath); err == nil {
			mimeType = detected.String()
		} else {
			mimeType = "application/octet-stream"
		}
	}

	attachment := models.Attachment{
		NotificationID:   notificationID,
		Filename:         storageName,
		OriginalFilename: file.Filename,
		FilePath:         storagePath,
		FileSize:         file.Size,
		MimeType:         mimeType,
	}

	if err := ac.DB.Create(&attachment).Error; err != nil {
		cleanup()
		utils.ErrorLogger.Printf("Attachment create error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.InfoLogger.Printf("File uploaded: %s (%d bytes) as %s", file.Filename, file.Size, storageName)

	utils.RespondJSON(c, http.StatusCreated, "File uploaded", gin.H{
		"attachment": attachment,
	})
}

// Download streams file berdasarkan nama penyimpanan internal.
// Row ada tapi file hilang dari disk juga dijawab 404.
func (ac *AttachmentController) Download(c *gin.Context) {
	filename := c.Param("filename")

	var attachment models.Attachment
	if err := ac.DB.Where("filename = ?", filename).First(&attachment).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("file not found"))
		return
	}

	if _, err := os.Stat(attachment.FilePath); err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("file not found"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.OriginalFilename))
	c.Header("Content-Type", attachment.MimeType)
	c.File(attachment.FilePath)
}

// DeleteAttachment (admin): hapus file dulu best-effort, row selalu dihapus
func (ac *AttachmentController) DeleteAttachment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("attachment_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid attachment ID"))
		return
	}

	var attachment models.Attachment
	if err := ac.DB.First(&attachment, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("attachment not found"))
		return
	}

	if err := os.Remove(attachment.FilePath); err != nil && !os.IsNotExist(err) {
		utils.ErrorLogger.Printf("Failed to remove file %s: %v", attachment.FilePath, err)
	}

	if err := ac.DB.Delete(&attachment).Error; err != nil {
		utils.ErrorLogger.Printf("Attachment delete error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Attachment deleted", gin.H{"attachment_id": attachment.ID})
}

// GetNotificationAttachments -> daftar attachment milik satu notifikasi.
// Aturan visibilitas sama dengan single-fetch publik: draft berarti 404.
func (ac *AttachmentController) GetNotificationAttachments(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification ID"))
		return
	}

	var notif models.Notification
	if err := ac.DB.Where("id = ? AND is_published = ?", id, true).
		First(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}

	attachments := make([]models.Attachment, 0)
	if err := ac.DB.Where("notification_id = ?", notif.ID).Find(&attachments).Error; err != nil {
		utils.ErrorLogger.Printf("Attachment list error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Attachments retrieved", gin.H{
		"attachments": attachments,
	})
}
