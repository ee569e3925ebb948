package models

import "time"

type Attachment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	NotificationID   *uint     `gorm:"index" json:"notificationId"`
	Filename         string    `gorm:"type:varchar(255);unique;not null" json:"filename"`
	OriginalFilename string    `gorm:"type:varchar(255);not null" json:"originalFilename"`
	FilePath         string    `gorm:"type:varchar(500);not null" json:"filePath"`
	FileSize         int64     `gorm:"not null" json:"fileSize"`
	MimeType         string    `gorm:"type:varchar(100);not null" json:"mimeType"`
	UploadedAt       time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}
