package models

import "testing"

func TestIsValidFolderStatus(t *testing.T) {
	valid := []FolderStatus{
		StatusDraft,
		StatusSubmitted,
		StatusUnderReviewByCoordinator,
		StatusApprovedCoordinator,
		StatusRejectedCoordinator,
		StatusAssignedToConvener,
		StatusUnderAudit,
		StatusAuditCompleted,
		StatusSubmittedToHod,
		StatusRejectedByConvener,
		StatusUnderReviewByHod,
		StatusApprovedByHod,
		StatusRejectedByHod,
	}
	for _, s := range valid {
		if !IsValidFolderStatus(s) {
			t.Errorf("IsValidFolderStatus(%q) = false, want true", s)
		}
	}

	invalid := []FolderStatus{"", "draft", "APPROVED", "DELETED", "UNDER_AUDIT "}
	for _, s := range invalid {
		if IsValidFolderStatus(s) {
			t.Errorf("IsValidFolderStatus(%q) = true, want false", s)
		}
	}
}

func TestIsRejected(t *testing.T) {
	rejected := map[FolderStatus]bool{
		StatusRejectedCoordinator: true,
		StatusRejectedByConvener:  true,
		StatusRejectedByHod:       true,
	}
	for s := range folderStatuses {
		if got := s.IsRejected(); got != rejected[s] {
			t.Errorf("%s.IsRejected() = %v, want %v", s, got, rejected[s])
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for s := range folderStatuses {
		want := s == StatusApprovedByHod
		if got := s.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, want)
		}
	}
}

func TestStatusIn(t *testing.T) {
	if !StatusSubmitted.In(StatusDraft, StatusSubmitted, StatusUnderAudit) {
		t.Error("SUBMITTED should be in a set containing it")
	}
	if StatusSubmitted.In(StatusDraft, StatusUnderAudit) {
		t.Error("SUBMITTED should not be in a set without it")
	}
	if StatusDraft.In() {
		t.Error("no status should be in the empty set")
	}
}

func TestFeedbackStatusWindows(t *testing.T) {
	for _, s := range AuditFeedbackStatuses {
		if !s.In(StatusUnderAudit, StatusAuditCompleted, StatusSubmittedToHod) {
			t.Errorf("unexpected audit feedback status %s", s)
		}
	}
	if StatusDraft.In(AuditFeedbackStatuses...) {
		t.Error("DRAFT must not accept audit feedback")
	}
	if StatusApprovedByHod.In(CoordinatorFeedbackStatuses...) {
		t.Error("APPROVED_BY_HOD must not accept coordinator feedback")
	}
	for _, s := range CoordinatorFeedbackStatuses {
		if !s.In(StatusSubmitted, StatusApprovedCoordinator, StatusRejectedCoordinator) {
			t.Errorf("unexpected coordinator feedback status %s", s)
		}
	}
}
