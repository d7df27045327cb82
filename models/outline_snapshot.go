package models

import "time"

// OutlineSnapshot preserves each saved version of a folder's outline.
type OutlineSnapshot struct {
	SnapshotID int       `gorm:"primaryKey;column:snapshot_id" json:"snapshot_id"`
	FolderID   int       `gorm:"column:folder_id" json:"folder_id"`
	Content    JSONMap   `gorm:"column:content" json:"content"`
	SavedBy    int       `gorm:"column:saved_by" json:"saved_by"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for OutlineSnapshot.
func (OutlineSnapshot) TableName() string {
	return "outline_snapshots"
}
