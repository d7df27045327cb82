package models

// FolderStatus is the lifecycle state of a course folder.
type FolderStatus string

const (
	StatusDraft                    FolderStatus = "DRAFT"
	StatusSubmitted                FolderStatus = "SUBMITTED"
	StatusUnderReviewByCoordinator FolderStatus = "UNDER_REVIEW_BY_COORDINATOR"
	StatusApprovedCoordinator      FolderStatus = "APPROVED_COORDINATOR"
	StatusRejectedCoordinator      FolderStatus = "REJECTED_COORDINATOR"
	StatusAssignedToConvener       FolderStatus = "ASSIGNED_TO_CONVENER"
	StatusUnderAudit               FolderStatus = "UNDER_AUDIT"
	StatusAuditCompleted           FolderStatus = "AUDIT_COMPLETED"
	StatusSubmittedToHod           FolderStatus = "SUBMITTED_TO_HOD"
	StatusRejectedByConvener       FolderStatus = "REJECTED_BY_CONVENER"
	StatusUnderReviewByHod         FolderStatus = "UNDER_REVIEW_BY_HOD"
	StatusApprovedByHod            FolderStatus = "APPROVED_BY_HOD"
	StatusRejectedByHod            FolderStatus = "REJECTED_BY_HOD"
)

var folderStatuses = map[FolderStatus]bool{
	StatusDraft:                    true,
	StatusSubmitted:                true,
	StatusUnderReviewByCoordinator: true,
	StatusApprovedCoordinator:      true,
	StatusRejectedCoordinator:      true,
	StatusAssignedToConvener:       true,
	StatusUnderAudit:               true,
	StatusAuditCompleted:           true,
	StatusSubmittedToHod:           true,
	StatusRejectedByConvener:       true,
	StatusUnderReviewByHod:         true,
	StatusApprovedByHod:            true,
	StatusRejectedByHod:            true,
}

// IsValidFolderStatus checks if the status is one of the known lifecycle states.
func IsValidFolderStatus(s FolderStatus) bool {
	return folderStatuses[s]
}

// IsRejected reports whether the status is one of the reviewer rejection states,
// all of which hand the folder back to the owner for rework.
func (s FolderStatus) IsRejected() bool {
	return s == StatusRejectedCoordinator || s == StatusRejectedByConvener || s == StatusRejectedByHod
}

// IsTerminal reports whether the status closes the review lifecycle.
func (s FolderStatus) IsTerminal() bool {
	return s == StatusApprovedByHod
}

// AuditFeedbackStatuses are the states in which audit members may attach
// section feedback.
var AuditFeedbackStatuses = []FolderStatus{
	StatusUnderAudit,
	StatusAuditCompleted,
	StatusSubmittedToHod,
}

// CoordinatorFeedbackStatuses are the states in which the coordinator may
// attach section feedback.
var CoordinatorFeedbackStatuses = []FolderStatus{
	StatusSubmitted,
	StatusApprovedCoordinator,
	StatusRejectedCoordinator,
}

// CoordinatorActionableStatuses are the states a coordinator sees in their
// review queue.
var CoordinatorActionableStatuses = []FolderStatus{
	StatusSubmitted,
	StatusApprovedCoordinator,
	StatusRejectedCoordinator,
}

func statusIn(s FolderStatus, set []FolderStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

// In reports whether the status appears in the given set.
func (s FolderStatus) In(set ...FolderStatus) bool {
	return statusIn(s, set)
}
