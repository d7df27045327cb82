package models

import (
	"time"
)

// Role is the workflow role carried by every account.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleHOD         Role = "HOD"
	RoleConvener    Role = "CONVENER"
	RoleCoordinator Role = "COORDINATOR"
	RoleFaculty     Role = "FACULTY"
	RoleAuditMember Role = "AUDIT_MEMBER"

	// RoleAuditTeam is the legacy spelling still present on older accounts.
	RoleAuditTeam Role = "AUDIT_TEAM"
)

var validRoles = map[Role]bool{
	RoleAdmin:       true,
	RoleHOD:         true,
	RoleConvener:    true,
	RoleCoordinator: true,
	RoleFaculty:     true,
	RoleAuditMember: true,
	RoleAuditTeam:   true,
}

// IsValidRole checks if the role is allowed.
func IsValidRole(r Role) bool {
	return validRoles[r]
}

// HasAuditAccess reports whether the role may act as an audit reviewer.
func (r Role) HasAuditAccess() bool {
	return r == RoleAuditMember || r == RoleAuditTeam
}

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	CNIC         string     `gorm:"column:cnic;unique" json:"cnic"`
	FullName     string     `gorm:"column:full_name" json:"full_name"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	Role         Role       `gorm:"column:role" json:"role"`
	Designation  *string    `gorm:"column:designation" json:"designation,omitempty"`
	DepartmentID *int       `gorm:"column:department_id" json:"department_id,omitempty"`
	ProgramID    *int       `gorm:"column:program_id" json:"program_id,omitempty"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Program    *Program    `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}
