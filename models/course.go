package models

import "time"

type CourseType string

const (
	CourseTypeTheory CourseType = "THEORY"
	CourseTypeLab    CourseType = "LAB"
	CourseTypeHybrid CourseType = "HYBRID"
)

type Course struct {
	CourseID      int        `gorm:"primaryKey;column:course_id" json:"course_id"`
	Code          string     `gorm:"column:code;unique" json:"code"`
	Title         string     `gorm:"column:title" json:"title"`
	CreditHours   int        `gorm:"column:credit_hours" json:"credit_hours"`
	CourseType    CourseType `gorm:"column:course_type" json:"course_type"`
	DepartmentID  *int       `gorm:"column:department_id" json:"department_id,omitempty"`
	ProgramID     *int       `gorm:"column:program_id" json:"program_id,omitempty"`
	PreRequisites *string    `gorm:"column:pre_requisites" json:"pre_requisites,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Program    *Program    `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// CourseAllocation assigns a faculty member to teach a course section in a term.
// One folder exists per allocation per term.
type CourseAllocation struct {
	AllocationID int        `gorm:"primaryKey;column:allocation_id" json:"allocation_id"`
	CourseID     int        `gorm:"column:course_id" json:"course_id"`
	FacultyID    int        `gorm:"column:faculty_id" json:"faculty_id"`
	Section      string     `gorm:"column:section" json:"section"`
	TermID       int        `gorm:"column:term_id" json:"term_id"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Course  *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Faculty *User   `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Term    *Term   `gorm:"foreignKey:TermID" json:"term,omitempty"`
}

// CourseCoordinatorAssignment makes a user the reviewing coordinator for a course.
// A NULL term applies to every term.
type CourseCoordinatorAssignment struct {
	AssignmentID  int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	CoordinatorID int        `gorm:"column:coordinator_id" json:"coordinator_id"`
	CourseID      int        `gorm:"column:course_id" json:"course_id"`
	TermID        *int       `gorm:"column:term_id" json:"term_id,omitempty"`
	IsActive      bool       `gorm:"column:is_active" json:"is_active"`
	AssignedByID  *int       `gorm:"column:assigned_by_id" json:"assigned_by_id,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Coordinator *User   `gorm:"foreignKey:CoordinatorID" json:"coordinator,omitempty"`
	Course      *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Term        *Term   `gorm:"foreignKey:TermID" json:"term,omitempty"`
}

// TableName overrides
func (Course) TableName() string {
	return "courses"
}

func (CourseAllocation) TableName() string {
	return "course_allocations"
}

func (CourseCoordinatorAssignment) TableName() string {
	return "course_coordinator_assignments"
}
