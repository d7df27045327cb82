package models

import "time"

// ComponentType classifies the standalone documents attached to a folder.
type ComponentType string

const (
	ComponentTitlePage      ComponentType = "TITLE_PAGE"
	ComponentCourseOutline  ComponentType = "COURSE_OUTLINE"
	ComponentCourseLog      ComponentType = "COURSE_LOG"
	ComponentAttendance     ComponentType = "ATTENDANCE"
	ComponentReferenceBooks ComponentType = "REFERENCE_BOOKS"
	ComponentFinalResult    ComponentType = "FINAL_RESULT"
	ComponentModelSolution  ComponentType = "MODEL_SOLUTION"
	ComponentAuditFeedback  ComponentType = "AUDIT_FEEDBACK"
	ComponentOther          ComponentType = "OTHER"
)

var validComponentTypes = map[ComponentType]bool{
	ComponentTitlePage:      true,
	ComponentCourseOutline:  true,
	ComponentCourseLog:      true,
	ComponentAttendance:     true,
	ComponentReferenceBooks: true,
	ComponentFinalResult:    true,
	ComponentModelSolution:  true,
	ComponentAuditFeedback:  true,
	ComponentOther:          true,
}

// IsValidComponentType checks if the component type is allowed.
func IsValidComponentType(t ComponentType) bool {
	return validComponentTypes[t]
}

type FolderComponent struct {
	ComponentID   int           `gorm:"primaryKey;column:component_id" json:"component_id"`
	FolderID      int           `gorm:"column:folder_id" json:"folder_id"`
	ComponentType ComponentType `gorm:"column:component_type" json:"component_type"`
	Title         *string       `gorm:"column:title" json:"title,omitempty"`
	FilePath      *string       `gorm:"column:file_path" json:"file_path,omitempty"`
	Content       *string       `gorm:"column:content" json:"content,omitempty"`
	UploadedBy    *int          `gorm:"column:uploaded_by" json:"uploaded_by,omitempty"`
	CreateAt      *time.Time    `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time    `gorm:"column:update_at" json:"update_at"`
}

// TableName specifies the table for FolderComponent.
func (FolderComponent) TableName() string {
	return "folder_components"
}
