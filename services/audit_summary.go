package services

import (
	"fmt"
	"time"

	"course-folder-api/models"

	"gorm.io/gorm"
)

// AuditSummary aggregates the per-auditor state of one assignment cycle.
type AuditSummary struct {
	Total     int                  `json:"total"`
	Submitted int                  `json:"submitted"`
	Approved  int                  `json:"approved"`
	Rejected  int                  `json:"rejected"`
	Pending   int                  `json:"pending"`
	Complete  bool                 `json:"complete"`
	Overall   models.AuditDecision `json:"overall"`
}

// SummarizeAudit folds the assignments into a cycle summary. The cycle is
// complete once every auditor has reported, or early as soon as any auditor
// rejects. Overall verdict: any rejection wins, then outstanding reports,
// then approval.
func SummarizeAudit(assignments []models.AuditAssignment) AuditSummary {
	summary := AuditSummary{Total: len(assignments)}

	for _, a := range assignments {
		if a.FeedbackSubmitted {
			summary.Submitted++
		}
		switch a.Decision {
		case models.AuditDecisionApproved:
			summary.Approved++
		case models.AuditDecisionRejected:
			summary.Rejected++
		default:
			summary.Pending++
		}
	}

	summary.Complete = summary.Total > 0 &&
		(summary.Rejected > 0 || summary.Submitted == summary.Total)

	switch {
	case summary.Rejected > 0:
		summary.Overall = models.AuditDecisionRejected
	case summary.Pending > 0:
		summary.Overall = models.AuditDecisionPending
	default:
		summary.Overall = models.AuditDecisionApproved
	}

	return summary
}

// CompleteAuditIfReady advances the folder to AUDIT_COMPLETED when the
// cycle summary says it is done. Runs inside the caller's transaction and
// mutates the passed folder on success so the caller sees the new state.
func CompleteAuditIfReady(tx *gorm.DB, folder *models.Folder, actorID int) (bool, AuditSummary, error) {
	var assignments []models.AuditAssignment
	if err := tx.Where("folder_id = ?", folder.FolderID).Find(&assignments).Error; err != nil {
		return false, AuditSummary{}, err
	}

	summary := SummarizeAudit(assignments)
	if !summary.Complete {
		return false, summary, nil
	}

	newStatus, err := ResolveTransition(ActionCompleteAudit, folder.Status)
	if err != nil {
		return false, summary, err
	}

	now := time.Now()
	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"status":             newStatus,
			"audit_completed_at": now,
		}).Error; err != nil {
		return false, summary, err
	}

	reason := fmt.Sprintf("All %d audit reports received", summary.Total)
	if summary.Rejected > 0 {
		reason = fmt.Sprintf("Audit closed early: %d of %d auditors rejected", summary.Rejected, summary.Total)
	}

	oldStatus := folder.Status
	history := models.FolderStatusHistory{
		FolderID:  folder.FolderID,
		OldStatus: &oldStatus,
		NewStatus: newStatus,
		ChangedBy: actorID,
		Reason:    &reason,
	}
	if err := tx.Create(&history).Error; err != nil {
		return false, summary, err
	}

	folder.Status = newStatus
	folder.AuditCompletedAt = &now

	return true, summary, nil
}
