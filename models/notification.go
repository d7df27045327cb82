package models

import "time"

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationFolderSubmitted NotificationType = "FOLDER_SUBMITTED"
	NotificationFolderApproved  NotificationType = "FOLDER_APPROVED"
	NotificationFolderReturned  NotificationType = "FOLDER_RETURNED"
	NotificationAuditAssigned   NotificationType = "AUDIT_ASSIGNED"
	NotificationDeadline        NotificationType = "DEADLINE"
	NotificationOther           NotificationType = "OTHER"
)

type Notification struct {
	NotificationID  int              `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID          int              `gorm:"column:user_id" json:"user_id"`
	Title           string           `gorm:"column:title" json:"title"`
	Message         string           `gorm:"column:message" json:"message"`
	Type            NotificationType `gorm:"column:type" json:"type"`
	RelatedFolderID *int             `gorm:"column:related_folder_id" json:"related_folder_id,omitempty"`
	IsRead          bool             `gorm:"column:is_read" json:"is_read"`
	CreateAt        time.Time        `gorm:"column:create_at" json:"created_at"`
	UpdateAt        *time.Time       `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
