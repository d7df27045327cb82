package models

import (
	"testing"
	"time"
)

func TestTermHasEnded(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name string
		end  *time.Time
		want bool
	}{
		{"no end date", nil, false},
		{"ended yesterday", &past, true},
		{"ends tomorrow", &future, false},
		{"ends exactly now", &now, false},
	}
	for _, tc := range cases {
		term := Term{SessionTerm: "Spring 2026", EndDate: tc.end}
		if got := term.HasEnded(now); got != tc.want {
			t.Errorf("%s: HasEnded = %v, want %v", tc.name, got, tc.want)
		}
	}
}
