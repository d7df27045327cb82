package models

import "time"

// DeadlineType distinguishes the two submission cycles a term has.
type DeadlineType string

const (
	DeadlineFirstSubmission DeadlineType = "FIRST_SUBMISSION"
	DeadlineFinalSubmission DeadlineType = "FINAL_SUBMISSION"
)

var validDeadlineTypes = map[DeadlineType]bool{
	DeadlineFirstSubmission: true,
	DeadlineFinalSubmission: true,
}

// IsValidDeadlineType checks if the deadline type is allowed.
func IsValidDeadlineType(t DeadlineType) bool {
	return validDeadlineTypes[t]
}

// FolderDeadline is one submission deadline per type, term and department.
type FolderDeadline struct {
	DeadlineID   int          `gorm:"primaryKey;column:deadline_id" json:"deadline_id"`
	DeadlineType DeadlineType `gorm:"column:deadline_type" json:"deadline_type"`
	TermID       int          `gorm:"column:term_id" json:"term_id"`
	DepartmentID int          `gorm:"column:department_id" json:"department_id"`
	DueAt        time.Time    `gorm:"column:due_at" json:"due_at"`
	Notes        *string      `gorm:"column:notes" json:"notes,omitempty"`
	CreatedBy    int          `gorm:"column:created_by" json:"created_by"`
	CreateAt     *time.Time   `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time   `gorm:"column:update_at" json:"update_at"`

	Term       *Term       `gorm:"foreignKey:TermID" json:"term,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName specifies the table for FolderDeadline.
func (FolderDeadline) TableName() string {
	return "folder_deadlines"
}
