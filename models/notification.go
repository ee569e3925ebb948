package models

import "time"

// Daftar prioritas yang valid untuk notifikasi
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Priority    string    `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	AuthorID    uint      `gorm:"not null" json:"authorId"`
	Author      User      `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
	// Tanpa tag default: gorm melewatkan field bernilai zero yang punya
	// default saat Create, sehingga draft (false) akan tersimpan true.
	// Nilai default diisi di kode, bukan di kolom.
	IsPublished bool      `gorm:"not null" json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Attachments []Attachment `gorm:"foreignKey:NotificationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"attachments"`
}
