package services

import (
	"testing"

	"course-folder-api/models"
)

func assignment(submitted bool, decision models.AuditDecision) models.AuditAssignment {
	return models.AuditAssignment{FeedbackSubmitted: submitted, Decision: decision}
}

func TestSummarizeAuditEmptyCycle(t *testing.T) {
	summary := SummarizeAudit(nil)
	if summary.Complete {
		t.Fatal("a cycle with no auditors must not be complete")
	}
	if summary.Overall != models.AuditDecisionApproved {
		t.Fatalf("overall = %s, want %s", summary.Overall, models.AuditDecisionApproved)
	}
	if summary.Total != 0 || summary.Pending != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

func TestSummarizeAuditAllApproved(t *testing.T) {
	summary := SummarizeAudit([]models.AuditAssignment{
		assignment(true, models.AuditDecisionApproved),
		assignment(true, models.AuditDecisionApproved),
		assignment(true, models.AuditDecisionApproved),
	})
	if !summary.Complete {
		t.Fatal("cycle with every report in must be complete")
	}
	if summary.Overall != models.AuditDecisionApproved {
		t.Fatalf("overall = %s, want %s", summary.Overall, models.AuditDecisionApproved)
	}
	if summary.Submitted != 3 || summary.Approved != 3 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

func TestSummarizeAuditWaitsForOutstandingReports(t *testing.T) {
	summary := SummarizeAudit([]models.AuditAssignment{
		assignment(true, models.AuditDecisionApproved),
		assignment(false, models.AuditDecisionPending),
	})
	if summary.Complete {
		t.Fatal("cycle must wait for the outstanding report")
	}
	if summary.Overall != models.AuditDecisionPending {
		t.Fatalf("overall = %s, want %s", summary.Overall, models.AuditDecisionPending)
	}
	if summary.Pending != 1 || summary.Submitted != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

func TestSummarizeAuditClosesEarlyOnRejection(t *testing.T) {
	summary := SummarizeAudit([]models.AuditAssignment{
		assignment(true, models.AuditDecisionRejected),
		assignment(false, models.AuditDecisionPending),
		assignment(false, models.AuditDecisionPending),
	})
	if !summary.Complete {
		t.Fatal("a single rejection must close the cycle early")
	}
	if summary.Overall != models.AuditDecisionRejected {
		t.Fatalf("overall = %s, want %s", summary.Overall, models.AuditDecisionRejected)
	}
	if summary.Rejected != 1 || summary.Pending != 2 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

func TestSummarizeAuditRejectionOutranksPending(t *testing.T) {
	summary := SummarizeAudit([]models.AuditAssignment{
		assignment(true, models.AuditDecisionApproved),
		assignment(true, models.AuditDecisionRejected),
		assignment(false, models.AuditDecisionPending),
	})
	if summary.Overall != models.AuditDecisionRejected {
		t.Fatalf("overall = %s, want %s", summary.Overall, models.AuditDecisionRejected)
	}
}
