package models

import "testing"

func TestNormalizeAuditDecision(t *testing.T) {
	cases := []struct {
		raw     string
		want    AuditDecision
		wantErr bool
	}{
		{"approved", AuditDecisionApproved, false},
		{"approve", AuditDecisionApproved, false},
		{"accept", AuditDecisionApproved, false},
		{"ACCEPTED", AuditDecisionApproved, false},
		{"rejected", AuditDecisionRejected, false},
		{"Reject", AuditDecisionRejected, false},
		{"decline", AuditDecisionRejected, false},
		{"declined", AuditDecisionRejected, false},
		{"pending", AuditDecisionPending, false},
		{"  Approved  ", AuditDecisionApproved, false},

		// an omitted decision on a submitted report means approval
		{"", AuditDecisionApproved, false},
		{"   ", AuditDecisionApproved, false},

		{"maybe", "", true},
		{"ok", "", true},
		{"APPROVED_WITH_COMMENTS", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeAuditDecision(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeAuditDecision(%q): expected error, got %s", tc.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeAuditDecision(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeAuditDecision(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
