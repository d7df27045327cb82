package models

import "time"

type Department struct {
	DepartmentID int        `gorm:"primaryKey;column:department_id" json:"department_id"`
	Name         string     `gorm:"column:name;unique" json:"name"`
	ShortCode    string     `gorm:"column:short_code;unique" json:"short_code"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Program struct {
	ProgramID    int        `gorm:"primaryKey;column:program_id" json:"program_id"`
	Name         string     `gorm:"column:name" json:"name"`
	ShortCode    string     `gorm:"column:short_code" json:"short_code"`
	DepartmentID int        `gorm:"column:department_id" json:"department_id"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName overrides
func (Department) TableName() string {
	return "departments"
}

func (Program) TableName() string {
	return "programs"
}
