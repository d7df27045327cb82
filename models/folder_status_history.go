package models

import "time"

// FolderStatusHistory tracks historical status changes for course folders.
type FolderStatusHistory struct {
	HistoryID int           `gorm:"primaryKey;column:history_id" json:"history_id"`
	FolderID  int           `gorm:"column:folder_id" json:"folder_id"`
	OldStatus *FolderStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus FolderStatus  `gorm:"column:new_status" json:"new_status"`
	ChangedBy int           `gorm:"column:changed_by" json:"changed_by"`
	Reason    *string       `gorm:"column:reason" json:"reason"`
	Notes     *string       `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time     `gorm:"column:created_at" json:"created_at"`

	Actor *User `gorm:"foreignKey:ChangedBy" json:"actor,omitempty"`
}

// TableName specifies the table for FolderStatusHistory.
func (FolderStatusHistory) TableName() string {
	return "folder_status_history"
}
