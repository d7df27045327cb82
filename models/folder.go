package models

import "time"

// Folder is the per-allocation record that aggregates a faculty member's
// teaching documentation for one course section in one term.
type Folder struct {
	FolderID           int          `gorm:"primaryKey;column:folder_id" json:"folder_id"`
	CourseAllocationID int          `gorm:"column:course_allocation_id" json:"course_allocation_id"`
	CourseID           int          `gorm:"column:course_id" json:"course_id"`
	FacultyID          int          `gorm:"column:faculty_id" json:"faculty_id"`
	TermID             int          `gorm:"column:term_id" json:"term_id"`
	Section            string       `gorm:"column:section" json:"section"`
	DepartmentID       *int         `gorm:"column:department_id" json:"department_id,omitempty"`
	ProgramID          *int         `gorm:"column:program_id" json:"program_id,omitempty"`
	Status             FolderStatus `gorm:"column:status" json:"status"`
	SubmittedAt        *time.Time   `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	// FirstActivityCompleted flips on the first content edit after creation.
	// CanEditForFinalSubmission is set by the first HOD approval and cleared
	// on resubmission; it opens the final-submission cycle.
	FirstActivityCompleted    bool `gorm:"column:first_activity_completed" json:"first_activity_completed"`
	CanEditForFinalSubmission bool `gorm:"column:can_edit_for_final_submission" json:"can_edit_for_final_submission"`
	IsComplete                bool `gorm:"column:is_complete" json:"is_complete"`

	CoordinatorReviewedAt *time.Time   `gorm:"column:coordinator_reviewed_at" json:"coordinator_reviewed_at,omitempty"`
	CoordinatorReviewedBy *int         `gorm:"column:coordinator_reviewed_by" json:"coordinator_reviewed_by,omitempty"`
	CoordinatorDecision   *string      `gorm:"column:coordinator_decision" json:"coordinator_decision,omitempty"`
	CoordinatorNotes      *string      `gorm:"column:coordinator_notes" json:"coordinator_notes,omitempty"`
	CoordinatorFeedback   SectionNotes `gorm:"column:coordinator_feedback" json:"coordinator_feedback"`

	ConvenerAssignedAt *time.Time `gorm:"column:convener_assigned_at" json:"convener_assigned_at,omitempty"`
	ConvenerAssignedBy *int       `gorm:"column:convener_assigned_by" json:"convener_assigned_by,omitempty"`
	ConvenerNotes      *string    `gorm:"column:convener_notes" json:"convener_notes,omitempty"`

	AuditCompletedAt    *time.Time   `gorm:"column:audit_completed_at" json:"audit_completed_at,omitempty"`
	AuditMemberFeedback SectionNotes `gorm:"column:audit_member_feedback" json:"audit_member_feedback"`

	HodReviewedAt    *time.Time `gorm:"column:hod_reviewed_at" json:"hod_reviewed_at,omitempty"`
	HodReviewedBy    *int       `gorm:"column:hod_reviewed_by" json:"hod_reviewed_by,omitempty"`
	HodDecision      *string    `gorm:"column:hod_decision" json:"hod_decision,omitempty"`
	HodNotes         *string    `gorm:"column:hod_notes" json:"hod_notes,omitempty"`
	HodFinalFeedback *string    `gorm:"column:hod_final_feedback" json:"hod_final_feedback,omitempty"`

	OutlineContent JSONMap `gorm:"column:outline_content" json:"outline_content"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	CourseAllocation *CourseAllocation `gorm:"foreignKey:CourseAllocationID" json:"course_allocation,omitempty"`
	Course           *Course           `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Faculty          *User             `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Term             *Term             `gorm:"foreignKey:TermID" json:"term,omitempty"`
	Department       *Department       `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	AuditAssignments []AuditAssignment `gorm:"foreignKey:FolderID" json:"audit_assignments,omitempty"`
}

// TableName specifies the table for Folder.
func (Folder) TableName() string {
	return "course_folders"
}

// IsOwnedBy reports whether the user is the folder's faculty owner.
func (f *Folder) IsOwnedBy(userID int) bool {
	return f.FacultyID == userID
}
