package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionKind identifies a reviewable part of a course folder.
type SectionKind string

const (
	SectionTitlePage      SectionKind = "TITLE_PAGE"
	SectionCourseOutline  SectionKind = "COURSE_OUTLINE"
	SectionCourseLog      SectionKind = "COURSE_LOG"
	SectionAttendance     SectionKind = "ATTENDANCE"
	SectionReferenceBooks SectionKind = "REFERENCE_BOOKS"
	SectionCourseResult   SectionKind = "COURSE_RESULT"
	SectionProjectReport  SectionKind = "PROJECT_REPORT"
	SectionCLOAssessment  SectionKind = "CLO_ASSESSMENT"
	SectionAssignment     SectionKind = "ASSIGNMENT"
	SectionQuiz           SectionKind = "QUIZ"
	SectionMidterm        SectionKind = "MIDTERM"
	SectionFinal          SectionKind = "FINAL"
)

// AssessmentPart is the sub-document of an assessment a note can target.
type AssessmentPart string

const (
	PartQuestionPaper AssessmentPart = "QUESTION_PAPER"
	PartModelSolution AssessmentPart = "MODEL_SOLUTION"
	PartRecords       AssessmentPart = "RECORDS"
)

// Legacy spellings still sent by older clients.
var sectionAliases = map[string]SectionKind{
	"TITLE":      SectionTitlePage,
	"OUTLINE":    SectionCourseOutline,
	"LOG":        SectionCourseLog,
	"LOGS":       SectionCourseLog,
	"RESULT":     SectionCourseResult,
	"PROJECT":    SectionProjectReport,
	"CLO":        SectionCLOAssessment,
	"REFERENCES": SectionReferenceBooks,
}

// plainSections take no number or part.
var plainSections = map[SectionKind]bool{
	SectionTitlePage:      true,
	SectionCourseOutline:  true,
	SectionCourseLog:      true,
	SectionAttendance:     true,
	SectionReferenceBooks: true,
	SectionCourseResult:   true,
	SectionProjectReport:  true,
	SectionCLOAssessment:  true,
}

// numberedSections require an assessment number and a part.
var numberedSections = map[SectionKind]bool{
	SectionAssignment: true,
	SectionQuiz:       true,
}

// partSections require a part but no number.
var partSections = map[SectionKind]bool{
	SectionMidterm: true,
	SectionFinal:   true,
}

var assessmentParts = map[AssessmentPart]bool{
	PartQuestionPaper: true,
	PartModelSolution: true,
	PartRecords:       true,
}

// SectionKey addresses one reviewable section of a folder. The closed kind
// vocabulary keeps feedback writers and readers agreeing on the same keys.
type SectionKey struct {
	Kind   SectionKind    `json:"kind"`
	Number int            `json:"number,omitempty"`
	Part   AssessmentPart `json:"part,omitempty"`
}

// String renders the canonical wire form, e.g. "QUIZ_3_QUESTION_PAPER",
// "MIDTERM_MODEL_SOLUTION" or "TITLE_PAGE".
func (k SectionKey) String() string {
	switch {
	case numberedSections[k.Kind]:
		return fmt.Sprintf("%s_%d_%s", k.Kind, k.Number, k.Part)
	case partSections[k.Kind]:
		return fmt.Sprintf("%s_%s", k.Kind, k.Part)
	default:
		return string(k.Kind)
	}
}

// ParseSectionKey normalizes a raw section identifier and validates it
// against the closed vocabulary. Unknown kinds and parts are rejected.
func ParseSectionKey(raw string) (SectionKey, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return SectionKey{}, fmt.Errorf("section is required")
	}

	if kind, ok := sectionAliases[normalized]; ok {
		return SectionKey{Kind: kind}, nil
	}
	if plainSections[SectionKind(normalized)] {
		return SectionKey{Kind: SectionKind(normalized)}, nil
	}

	for kind := range partSections {
		prefix := string(kind) + "_"
		if !strings.HasPrefix(normalized, prefix) {
			continue
		}
		part := AssessmentPart(strings.TrimPrefix(normalized, prefix))
		if !assessmentParts[part] {
			return SectionKey{}, fmt.Errorf("unknown section part %q", string(part))
		}
		return SectionKey{Kind: kind, Part: part}, nil
	}

	for kind := range numberedSections {
		prefix := string(kind) + "_"
		if !strings.HasPrefix(normalized, prefix) {
			continue
		}
		rest := strings.TrimPrefix(normalized, prefix)
		sep := strings.Index(rest, "_")
		if sep <= 0 {
			return SectionKey{}, fmt.Errorf("section %q needs a number and part", raw)
		}
		number, err := strconv.Atoi(rest[:sep])
		if err != nil || number <= 0 {
			return SectionKey{}, fmt.Errorf("invalid %s number %q", strings.ToLower(string(kind)), rest[:sep])
		}
		part := AssessmentPart(rest[sep+1:])
		if !assessmentParts[part] {
			return SectionKey{}, fmt.Errorf("unknown section part %q", rest[sep+1:])
		}
		return SectionKey{Kind: kind, Number: number, Part: part}, nil
	}

	return SectionKey{}, fmt.Errorf("unknown section %q", raw)
}
