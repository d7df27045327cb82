package models

import "testing"

func TestParseSectionKey(t *testing.T) {
	cases := []struct {
		raw     string
		want    SectionKey
		wantErr bool
	}{
		{"TITLE_PAGE", SectionKey{Kind: SectionTitlePage}, false},
		{"COURSE_OUTLINE", SectionKey{Kind: SectionCourseOutline}, false},
		{"ATTENDANCE", SectionKey{Kind: SectionAttendance}, false},
		{"CLO_ASSESSMENT", SectionKey{Kind: SectionCLOAssessment}, false},

		// legacy aliases normalize to the canonical kind
		{"TITLE", SectionKey{Kind: SectionTitlePage}, false},
		{"OUTLINE", SectionKey{Kind: SectionCourseOutline}, false},
		{"LOGS", SectionKey{Kind: SectionCourseLog}, false},
		{"references", SectionKey{Kind: SectionReferenceBooks}, false},
		{"  project  ", SectionKey{Kind: SectionProjectReport}, false},

		{"QUIZ_3_QUESTION_PAPER", SectionKey{Kind: SectionQuiz, Number: 3, Part: PartQuestionPaper}, false},
		{"assignment_1_records", SectionKey{Kind: SectionAssignment, Number: 1, Part: PartRecords}, false},
		{"MIDTERM_MODEL_SOLUTION", SectionKey{Kind: SectionMidterm, Part: PartModelSolution}, false},
		{"final_question_paper", SectionKey{Kind: SectionFinal, Part: PartQuestionPaper}, false},

		{"", SectionKey{}, true},
		{"SYLLABUS", SectionKey{}, true},
		{"QUIZ", SectionKey{}, true},
		{"QUIZ_QUESTION_PAPER", SectionKey{}, true},
		{"QUIZ_0_QUESTION_PAPER", SectionKey{}, true},
		{"QUIZ_-1_QUESTION_PAPER", SectionKey{}, true},
		{"QUIZ_3_ANSWER_SHEET", SectionKey{}, true},
		{"MIDTERM", SectionKey{}, true},
		{"MIDTERM_ANSWER_KEY", SectionKey{}, true},
	}

	for _, tc := range cases {
		got, err := ParseSectionKey(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSectionKey(%q): expected error, got %+v", tc.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSectionKey(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSectionKey(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestSectionKeyString(t *testing.T) {
	cases := []struct {
		key  SectionKey
		want string
	}{
		{SectionKey{Kind: SectionTitlePage}, "TITLE_PAGE"},
		{SectionKey{Kind: SectionCourseLog}, "COURSE_LOG"},
		{SectionKey{Kind: SectionQuiz, Number: 3, Part: PartQuestionPaper}, "QUIZ_3_QUESTION_PAPER"},
		{SectionKey{Kind: SectionAssignment, Number: 12, Part: PartModelSolution}, "ASSIGNMENT_12_MODEL_SOLUTION"},
		{SectionKey{Kind: SectionMidterm, Part: PartModelSolution}, "MIDTERM_MODEL_SOLUTION"},
		{SectionKey{Kind: SectionFinal, Part: PartRecords}, "FINAL_RECORDS"},
	}

	for _, tc := range cases {
		if got := tc.key.String(); got != tc.want {
			t.Errorf("String(%+v) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestSectionKeyRoundTrip(t *testing.T) {
	keys := []SectionKey{
		{Kind: SectionTitlePage},
		{Kind: SectionCLOAssessment},
		{Kind: SectionQuiz, Number: 2, Part: PartRecords},
		{Kind: SectionMidterm, Part: PartQuestionPaper},
	}

	for _, key := range keys {
		parsed, err := ParseSectionKey(key.String())
		if err != nil {
			t.Errorf("round trip %q: %v", key.String(), err)
			continue
		}
		if parsed != key {
			t.Errorf("round trip %q = %+v, want %+v", key.String(), parsed, key)
		}
	}
}
