package services

import (
	"errors"
	"fmt"

	"course-folder-api/models"
)

// ErrIllegalTransition is returned when an action is not legal from the
// folder's current status. Handlers map it to 409 Conflict.
var ErrIllegalTransition = errors.New("illegal folder transition")

// FolderAction names a workflow action a user can take on a folder.
type FolderAction string

const (
	ActionSubmit             FolderAction = "submit"
	ActionCoordinatorApprove FolderAction = "coordinator_approve"
	ActionCoordinatorReject  FolderAction = "coordinator_reject"
	ActionAssignAudit        FolderAction = "assign_audit"
	ActionUnassignAudit      FolderAction = "unassign_audit"
	ActionSubmitAuditReport  FolderAction = "submit_audit_report"
	// ActionCompleteAudit is system-triggered by report aggregation,
	// never by a request.
	ActionCompleteAudit  FolderAction = "complete_audit"
	ActionForwardToHod   FolderAction = "forward_to_hod"
	ActionConvenerReject FolderAction = "convener_reject"
	ActionHodApprove     FolderAction = "hod_approve"
	ActionHodReject      FolderAction = "hod_reject"
)

// transitionRule declares where an action is legal from, where it lands,
// which review stage records it, and whether notes are mandatory.
type transitionRule struct {
	From          []models.FolderStatus
	To            models.FolderStatus
	Stage         string
	NotesRequired bool
}

// transitionTable is the single source of truth for the folder lifecycle.
// Every status change in the system resolves through it; guard conditions
// that depend on more than the current status (ownership, assignments,
// auditor aggregation) live with the handlers.
var transitionTable = map[FolderAction]transitionRule{
	ActionSubmit: {
		From: []models.FolderStatus{
			models.StatusDraft,
			models.StatusRejectedCoordinator,
			models.StatusRejectedByConvener,
			models.StatusRejectedByHod,
			// resubmission for the final activity starts from the approved folder
			models.StatusApprovedByHod,
		},
		To: models.StatusSubmitted,
	},
	ActionCoordinatorApprove: {
		From: []models.FolderStatus{
			models.StatusSubmitted,
			models.StatusUnderReviewByCoordinator,
		},
		To:    models.StatusApprovedCoordinator,
		Stage: models.ReviewStageCoordinator,
	},
	ActionCoordinatorReject: {
		From: []models.FolderStatus{
			models.StatusSubmitted,
			models.StatusUnderReviewByCoordinator,
		},
		To:    models.StatusRejectedCoordinator,
		Stage: models.ReviewStageCoordinator,
	},
	ActionAssignAudit: {
		From: []models.FolderStatus{models.StatusApprovedCoordinator},
		To:   models.StatusUnderAudit,
	},
	ActionUnassignAudit: {
		From: []models.FolderStatus{models.StatusUnderAudit},
		To:   models.StatusApprovedCoordinator,
	},
	ActionSubmitAuditReport: {
		// status only advances once every auditor has reported or any
		// auditor rejects, via CompleteAuditIfReady
		From:  []models.FolderStatus{models.StatusUnderAudit},
		To:    models.StatusUnderAudit,
		Stage: models.ReviewStageAudit,
	},
	ActionCompleteAudit: {
		From: []models.FolderStatus{models.StatusUnderAudit},
		To:   models.StatusAuditCompleted,
	},
	ActionForwardToHod: {
		From: []models.FolderStatus{
			models.StatusAuditCompleted,
			// convener may revisit an earlier decision
			models.StatusSubmittedToHod,
			models.StatusRejectedByConvener,
		},
		To:    models.StatusSubmittedToHod,
		Stage: models.ReviewStageConvener,
	},
	ActionConvenerReject: {
		From: []models.FolderStatus{
			models.StatusAuditCompleted,
			models.StatusSubmittedToHod,
			models.StatusRejectedByConvener,
		},
		To:            models.StatusRejectedByConvener,
		Stage:         models.ReviewStageConvener,
		NotesRequired: true,
	},
	ActionHodApprove: {
		From: []models.FolderStatus{
			models.StatusSubmittedToHod,
			models.StatusUnderReviewByHod,
		},
		To:    models.StatusApprovedByHod,
		Stage: models.ReviewStageHod,
	},
	ActionHodReject: {
		From: []models.FolderStatus{
			models.StatusSubmittedToHod,
			models.StatusUnderReviewByHod,
		},
		To:    models.StatusRejectedByHod,
		Stage: models.ReviewStageHod,
	},
}

// actionOrder keeps LegalActions output stable for the UI.
var actionOrder = []FolderAction{
	ActionSubmit,
	ActionCoordinatorApprove,
	ActionCoordinatorReject,
	ActionAssignAudit,
	ActionUnassignAudit,
	ActionSubmitAuditReport,
	ActionForwardToHod,
	ActionConvenerReject,
	ActionHodApprove,
	ActionHodReject,
}

// ResolveTransition returns the status the action lands the folder in, or
// ErrIllegalTransition when the action is not legal from the current status.
func ResolveTransition(action FolderAction, from models.FolderStatus) (models.FolderStatus, error) {
	rule, ok := transitionTable[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrIllegalTransition, action)
	}
	if !from.In(rule.From...) {
		return "", fmt.Errorf("%w: cannot %s from %s", ErrIllegalTransition, action, from)
	}
	return rule.To, nil
}

// CanTransition reports whether the action is legal from the status.
func CanTransition(action FolderAction, from models.FolderStatus) bool {
	_, err := ResolveTransition(action, from)
	return err == nil
}

// LegalActions lists every action legal from the status, in stable order.
func LegalActions(from models.FolderStatus) []FolderAction {
	var actions []FolderAction
	for _, action := range actionOrder {
		if CanTransition(action, from) {
			actions = append(actions, action)
		}
	}
	return actions
}

// LegalActionsForFolder narrows LegalActions with folder-level guards the
// table cannot see: an approved folder only accepts a resubmission while
// the final-submission window is open.
func LegalActionsForFolder(folder *models.Folder) []FolderAction {
	if folder == nil {
		return nil
	}
	actions := LegalActions(folder.Status)
	if folder.Status == models.StatusApprovedByHod && !folder.CanEditForFinalSubmission {
		filtered := actions[:0]
		for _, action := range actions {
			if action != ActionSubmit {
				filtered = append(filtered, action)
			}
		}
		actions = filtered
	}
	return actions
}

// ReviewStage returns the stage an action records its review row under,
// empty for actions that do not create review rows.
func ReviewStage(action FolderAction) string {
	return transitionTable[action].Stage
}

// NotesRequired reports whether an action must carry non-empty notes.
func NotesRequired(action FolderAction) bool {
	return transitionTable[action].NotesRequired
}
