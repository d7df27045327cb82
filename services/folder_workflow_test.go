package services

import (
	"errors"
	"testing"

	"course-folder-api/models"
)

func TestResolveTransitionFollowsLifecycle(t *testing.T) {
	cases := []struct {
		name    string
		action  FolderAction
		from    models.FolderStatus
		want    models.FolderStatus
		wantErr bool
	}{
		{"submit from draft", ActionSubmit, models.StatusDraft, models.StatusSubmitted, false},
		{"submit after coordinator rejection", ActionSubmit, models.StatusRejectedCoordinator, models.StatusSubmitted, false},
		{"submit after convener rejection", ActionSubmit, models.StatusRejectedByConvener, models.StatusSubmitted, false},
		{"submit after hod rejection", ActionSubmit, models.StatusRejectedByHod, models.StatusSubmitted, false},
		{"final resubmission from approved", ActionSubmit, models.StatusApprovedByHod, models.StatusSubmitted, false},
		{"submit while under audit", ActionSubmit, models.StatusUnderAudit, "", true},

		{"coordinator approves submission", ActionCoordinatorApprove, models.StatusSubmitted, models.StatusApprovedCoordinator, false},
		{"coordinator approves mid-review", ActionCoordinatorApprove, models.StatusUnderReviewByCoordinator, models.StatusApprovedCoordinator, false},
		{"coordinator rejects submission", ActionCoordinatorReject, models.StatusSubmitted, models.StatusRejectedCoordinator, false},
		{"coordinator cannot approve a draft", ActionCoordinatorApprove, models.StatusDraft, "", true},

		{"convener assigns auditors", ActionAssignAudit, models.StatusApprovedCoordinator, models.StatusUnderAudit, false},
		{"cannot assign before coordinator approval", ActionAssignAudit, models.StatusSubmitted, "", true},
		{"convener unassigns auditors", ActionUnassignAudit, models.StatusUnderAudit, models.StatusApprovedCoordinator, false},

		{"audit report keeps folder under audit", ActionSubmitAuditReport, models.StatusUnderAudit, models.StatusUnderAudit, false},
		{"aggregation closes the audit", ActionCompleteAudit, models.StatusUnderAudit, models.StatusAuditCompleted, false},
		{"audit cannot close twice", ActionCompleteAudit, models.StatusAuditCompleted, "", true},

		{"convener forwards to hod", ActionForwardToHod, models.StatusAuditCompleted, models.StatusSubmittedToHod, false},
		{"convener revises a forward", ActionForwardToHod, models.StatusSubmittedToHod, models.StatusSubmittedToHod, false},
		{"convener forwards after own rejection", ActionForwardToHod, models.StatusRejectedByConvener, models.StatusSubmittedToHod, false},
		{"convener rejects after audit", ActionConvenerReject, models.StatusAuditCompleted, models.StatusRejectedByConvener, false},
		{"convener revises to rejection", ActionConvenerReject, models.StatusSubmittedToHod, models.StatusRejectedByConvener, false},

		{"hod approves", ActionHodApprove, models.StatusSubmittedToHod, models.StatusApprovedByHod, false},
		{"hod approves mid-review", ActionHodApprove, models.StatusUnderReviewByHod, models.StatusApprovedByHod, false},
		{"hod rejects", ActionHodReject, models.StatusSubmittedToHod, models.StatusRejectedByHod, false},
		{"hod cannot decide a draft", ActionHodApprove, models.StatusDraft, "", true},

		{"unknown action", FolderAction("archive"), models.StatusDraft, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveTransition(tc.action, tc.from)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got status %s", got)
				}
				if !errors.Is(err, ErrIllegalTransition) {
					t.Fatalf("error does not wrap ErrIllegalTransition: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestFullReviewCycleWalk(t *testing.T) {
	walk := []struct {
		action FolderAction
		want   models.FolderStatus
	}{
		{ActionSubmit, models.StatusSubmitted},
		{ActionCoordinatorApprove, models.StatusApprovedCoordinator},
		{ActionAssignAudit, models.StatusUnderAudit},
		{ActionSubmitAuditReport, models.StatusUnderAudit},
		{ActionCompleteAudit, models.StatusAuditCompleted},
		{ActionForwardToHod, models.StatusSubmittedToHod},
		{ActionHodApprove, models.StatusApprovedByHod},
		// second cycle: the final-submission window reopens the flow
		{ActionSubmit, models.StatusSubmitted},
		{ActionCoordinatorApprove, models.StatusApprovedCoordinator},
		{ActionAssignAudit, models.StatusUnderAudit},
		{ActionCompleteAudit, models.StatusAuditCompleted},
		{ActionForwardToHod, models.StatusSubmittedToHod},
		{ActionHodApprove, models.StatusApprovedByHod},
	}

	status := models.StatusDraft
	for i, step := range walk {
		next, err := ResolveTransition(step.action, status)
		if err != nil {
			t.Fatalf("step %d: %s from %s: %v", i, step.action, status, err)
		}
		if next != step.want {
			t.Fatalf("step %d: %s from %s landed in %s, want %s", i, step.action, status, next, step.want)
		}
		status = next
	}
}

func TestRejectionHandsFolderBackToOwner(t *testing.T) {
	rejections := []models.FolderStatus{
		models.StatusRejectedCoordinator,
		models.StatusRejectedByConvener,
		models.StatusRejectedByHod,
	}

	for _, status := range rejections {
		if !status.IsRejected() {
			t.Errorf("%s should report as rejected", status)
		}
		next, err := ResolveTransition(ActionSubmit, status)
		if err != nil {
			t.Errorf("resubmission from %s: %v", status, err)
			continue
		}
		if next != models.StatusSubmitted {
			t.Errorf("resubmission from %s landed in %s", status, next)
		}
	}
}

func TestLegalActionsListsStableOrder(t *testing.T) {
	got := LegalActions(models.StatusUnderAudit)
	want := []FolderAction{ActionUnassignAudit, ActionSubmitAuditReport}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	for _, action := range got {
		if action == ActionCompleteAudit {
			t.Fatal("complete_audit must never be listed as a user action")
		}
	}
}

func TestLegalActionsForFolderGatesFinalResubmission(t *testing.T) {
	if got := LegalActionsForFolder(nil); got != nil {
		t.Fatalf("nil folder: got %v", got)
	}

	closed := &models.Folder{Status: models.StatusApprovedByHod}
	for _, action := range LegalActionsForFolder(closed) {
		if action == ActionSubmit {
			t.Fatal("submit offered while the final-submission window is closed")
		}
	}

	open := &models.Folder{Status: models.StatusApprovedByHod, CanEditForFinalSubmission: true}
	found := false
	for _, action := range LegalActionsForFolder(open) {
		if action == ActionSubmit {
			found = true
		}
	}
	if !found {
		t.Fatal("submit missing while the final-submission window is open")
	}
}

func TestNotesRequiredOnlyForConvenerRejection(t *testing.T) {
	if !NotesRequired(ActionConvenerReject) {
		t.Error("convener rejection must require notes")
	}
	for _, action := range []FolderAction{
		ActionSubmit,
		ActionCoordinatorApprove,
		ActionCoordinatorReject,
		ActionForwardToHod,
		ActionHodApprove,
		ActionHodReject,
	} {
		if NotesRequired(action) {
			t.Errorf("%s should not require notes", action)
		}
	}
}

func TestReviewStageMapping(t *testing.T) {
	cases := map[FolderAction]string{
		ActionCoordinatorApprove: models.ReviewStageCoordinator,
		ActionCoordinatorReject:  models.ReviewStageCoordinator,
		ActionSubmitAuditReport:  models.ReviewStageAudit,
		ActionForwardToHod:       models.ReviewStageConvener,
		ActionConvenerReject:     models.ReviewStageConvener,
		ActionHodApprove:         models.ReviewStageHod,
		ActionHodReject:          models.ReviewStageHod,
		ActionSubmit:             "",
		ActionAssignAudit:        "",
	}
	for action, want := range cases {
		if got := ReviewStage(action); got != want {
			t.Errorf("ReviewStage(%s) = %q, want %q", action, got, want)
		}
	}
}
