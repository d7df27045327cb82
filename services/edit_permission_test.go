package services

import (
	"testing"

	"course-folder-api/models"
)

var allFolderStatuses = []models.FolderStatus{
	models.StatusDraft,
	models.StatusSubmitted,
	models.StatusUnderReviewByCoordinator,
	models.StatusApprovedCoordinator,
	models.StatusRejectedCoordinator,
	models.StatusAssignedToConvener,
	models.StatusUnderAudit,
	models.StatusAuditCompleted,
	models.StatusSubmittedToHod,
	models.StatusRejectedByConvener,
	models.StatusUnderReviewByHod,
	models.StatusApprovedByHod,
	models.StatusRejectedByHod,
}

func TestAuditMemberNeverEditsContent(t *testing.T) {
	rc := ReviewContext{IsAuditMemberReview: true}
	for _, status := range allFolderStatuses {
		if CanEditFolder(status, true, true, rc) {
			t.Errorf("audit member may edit in %s", status)
		}
	}
}

func TestCoordinatorNeverEditsContent(t *testing.T) {
	rc := ReviewContext{IsCoordinatorReview: true}
	for _, status := range allFolderStatuses {
		if CanEditFolder(status, true, true, rc) {
			t.Errorf("coordinator may edit in %s", status)
		}
	}
}

func TestConvenerEditsDraftAndRejectedOnly(t *testing.T) {
	rc := ReviewContext{IsConvenerReview: true}
	for _, status := range allFolderStatuses {
		want := status == models.StatusDraft || status.IsRejected()
		if got := CanEditFolder(status, false, false, rc); got != want {
			t.Errorf("convener in %s: got %v, want %v", status, got, want)
		}
	}
}

func TestHodEditsOnlyDuringHodReview(t *testing.T) {
	rc := ReviewContext{IsHodReview: true}
	for _, status := range allFolderStatuses {
		want := status == models.StatusSubmittedToHod || status == models.StatusUnderReviewByHod
		if got := CanEditFolder(status, false, false, rc); got != want {
			t.Errorf("hod in %s: got %v, want %v", status, got, want)
		}
	}
}

func TestOwnerEditsDraftRejectedAndFinalWindow(t *testing.T) {
	for _, status := range allFolderStatuses {
		want := status == models.StatusDraft || status.IsRejected()
		if got := CanEditFolder(status, false, false, ReviewContext{}); got != want {
			t.Errorf("owner in %s: got %v, want %v", status, got, want)
		}
	}

	// the final-submission override unlocks every state for the owner
	for _, status := range allFolderStatuses {
		if !CanEditFolder(status, false, true, ReviewContext{}) {
			t.Errorf("owner with final-submission window in %s: locked", status)
		}
	}
}

func TestFirstActivityFlagDoesNotChangeOutcome(t *testing.T) {
	contexts := []ReviewContext{
		{},
		{IsCoordinatorReview: true},
		{IsConvenerReview: true},
		{IsAuditMemberReview: true},
		{IsHodReview: true},
	}
	for _, rc := range contexts {
		for _, status := range allFolderStatuses {
			before := CanEditFolder(status, false, false, rc)
			after := CanEditFolder(status, true, false, rc)
			if before != after {
				t.Errorf("first activity flipped the result in %s (%+v)", status, rc)
			}
		}
	}
}

func TestAuditReviewWinsOverOtherFlags(t *testing.T) {
	rc := ReviewContext{IsAuditMemberReview: true, IsConvenerReview: true}
	if CanEditFolder(models.StatusDraft, false, false, rc) {
		t.Fatal("audit member flag must take priority over convener")
	}
}

func TestCanEditNilFolder(t *testing.T) {
	if CanEdit(nil, ReviewContext{}) {
		t.Fatal("nil folder must never be editable")
	}
}

func TestCanEditUsesFolderFlags(t *testing.T) {
	folder := &models.Folder{
		Status:                    models.StatusApprovedByHod,
		CanEditForFinalSubmission: true,
	}
	if !CanEdit(folder, ReviewContext{}) {
		t.Fatal("owner should edit an approved folder inside the final-submission window")
	}

	folder.CanEditForFinalSubmission = false
	if CanEdit(folder, ReviewContext{}) {
		t.Fatal("approved folder editable without the final-submission window")
	}
}
