package models

import "time"

// AssessmentType distinguishes the graded instruments a folder documents.
type AssessmentType string

const (
	AssessmentAssignment AssessmentType = "ASSIGNMENT"
	AssessmentQuiz       AssessmentType = "QUIZ"
	AssessmentMidterm    AssessmentType = "MIDTERM"
	AssessmentFinal      AssessmentType = "FINAL"
)

var validAssessmentTypes = map[AssessmentType]bool{
	AssessmentAssignment: true,
	AssessmentQuiz:       true,
	AssessmentMidterm:    true,
	AssessmentFinal:      true,
}

// IsValidAssessmentType checks if the assessment type is allowed.
func IsValidAssessmentType(t AssessmentType) bool {
	return validAssessmentTypes[t]
}

type Assessment struct {
	AssessmentID      int            `gorm:"primaryKey;column:assessment_id" json:"assessment_id"`
	FolderID          int            `gorm:"column:folder_id" json:"folder_id"`
	AssessmentType    AssessmentType `gorm:"column:assessment_type" json:"assessment_type"`
	Number            int            `gorm:"column:number" json:"number"`
	Title             *string        `gorm:"column:title" json:"title,omitempty"`
	MaxMarks          *float64       `gorm:"column:max_marks" json:"max_marks,omitempty"`
	Weightage         *float64       `gorm:"column:weightage" json:"weightage,omitempty"`
	QuestionPaperFile *string        `gorm:"column:question_paper_file" json:"question_paper_file,omitempty"`
	ModelSolutionFile *string        `gorm:"column:model_solution_file" json:"model_solution_file,omitempty"`
	RecordsFile       *string        `gorm:"column:records_file" json:"records_file,omitempty"`
	CreateAt          *time.Time     `gorm:"column:create_at" json:"create_at"`
	UpdateAt          *time.Time     `gorm:"column:update_at" json:"update_at"`
}

// TableName specifies the table for Assessment.
func (Assessment) TableName() string {
	return "assessments"
}
