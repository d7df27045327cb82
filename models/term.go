package models

import "time"

// Term is an academic session, e.g. "Fall 2025". Only one term is active at a time.
type Term struct {
	TermID      int        `gorm:"primaryKey;column:term_id" json:"term_id"`
	SessionTerm string     `gorm:"column:session_term;unique" json:"session_term"`
	StartDate   *time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate     *time.Time `gorm:"column:end_date" json:"end_date"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName specifies the table for Term.
func (Term) TableName() string {
	return "terms"
}

// HasEnded reports whether the term's end date has passed.
func (t Term) HasEnded(now time.Time) bool {
	if t.EndDate == nil {
		return false
	}
	return t.EndDate.Before(now)
}
