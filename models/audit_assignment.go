package models

import (
	"fmt"
	"strings"
	"time"
)

// AuditDecision is a single auditor's verdict on a folder.
type AuditDecision string

const (
	AuditDecisionPending  AuditDecision = "PENDING"
	AuditDecisionApproved AuditDecision = "APPROVED"
	AuditDecisionRejected AuditDecision = "REJECTED"
)

var auditDecisionSynonyms = map[string]AuditDecision{
	"pending":  AuditDecisionPending,
	"approve":  AuditDecisionApproved,
	"approved": AuditDecisionApproved,
	"accept":   AuditDecisionApproved,
	"accepted": AuditDecisionApproved,
	"reject":   AuditDecisionRejected,
	"rejected": AuditDecisionRejected,
	"decline":  AuditDecisionRejected,
	"declined": AuditDecisionRejected,
}

// NormalizeAuditDecision maps the spellings clients send onto the canonical
// decision values.
func NormalizeAuditDecision(raw string) (AuditDecision, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return AuditDecisionApproved, nil
	}
	if decision, ok := auditDecisionSynonyms[key]; ok {
		return decision, nil
	}
	return "", fmt.Errorf("unknown audit decision %q", raw)
}

// AuditAssignment relates a folder to one auditor. Created by assign_audit,
// mutated only by the owning auditor's report, destroyed by unassign_audit.
type AuditAssignment struct {
	AssignmentID        int           `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	FolderID            int           `gorm:"column:folder_id" json:"folder_id"`
	AuditorID           int           `gorm:"column:auditor_id" json:"auditor_id"`
	AssignedByID        *int          `gorm:"column:assigned_by_id" json:"assigned_by_id,omitempty"`
	AssignedAt          time.Time     `gorm:"column:assigned_at" json:"assigned_at"`
	Decision            AuditDecision `gorm:"column:decision" json:"decision"`
	Remarks             *string       `gorm:"column:remarks" json:"remarks,omitempty"`
	Ratings             RatingMap     `gorm:"column:ratings" json:"ratings"`
	FeedbackFile        *string       `gorm:"column:feedback_file" json:"feedback_file,omitempty"`
	FeedbackSubmitted   bool          `gorm:"column:feedback_submitted" json:"feedback_submitted"`
	FeedbackSubmittedAt *time.Time    `gorm:"column:feedback_submitted_at" json:"feedback_submitted_at,omitempty"`
	CreateAt            *time.Time    `gorm:"column:create_at" json:"create_at"`
	UpdateAt            *time.Time    `gorm:"column:update_at" json:"update_at"`

	Auditor    *User `gorm:"foreignKey:AuditorID" json:"auditor,omitempty"`
	AssignedBy *User `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
}

// TableName specifies the table for AuditAssignment.
func (AuditAssignment) TableName() string {
	return "audit_assignments"
}
