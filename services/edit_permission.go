package services

import (
	"course-folder-api/models"
)

// CanEditFolder decides whether folder content is editable for the viewer.
// Pure function: handlers feed the result into responses, the UI maps it to
// form disabled state.
//
// Rules apply in priority order, first match wins:
//  1. audit members never edit folder content, only their own report
//  2. convener may fix content while the folder sits in draft or any
//     rejected state
//  3. HOD may annotate just before the final decision
//  4. the owner edits in draft or after any rejection, or whenever the
//     final-submission override is set
//
// firstActivityCompleted never changes the outcome; it is carried for UI
// hints only.
func CanEditFolder(status models.FolderStatus, firstActivityCompleted, canEditForFinalSubmission bool, rc ReviewContext) bool {
	switch {
	case rc.IsAuditMemberReview:
		return false

	case rc.IsConvenerReview:
		return status == models.StatusDraft || status.IsRejected()

	case rc.IsHodReview:
		return status == models.StatusSubmittedToHod || status == models.StatusUnderReviewByHod

	case rc.IsCoordinatorReview:
		return false

	default:
		if canEditForFinalSubmission {
			return true
		}
		return status == models.StatusDraft || status.IsRejected()
	}
}

// CanEdit is the folder-centric shorthand used by handlers.
func CanEdit(folder *models.Folder, rc ReviewContext) bool {
	if folder == nil {
		return false
	}
	return CanEditFolder(folder.Status, folder.FirstActivityCompleted, folder.CanEditForFinalSubmission, rc)
}
