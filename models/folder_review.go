package models

import "time"

// Review stages, one per pipeline tier.
const (
	ReviewStageCoordinator = "coordinator"
	ReviewStageAudit       = "audit"
	ReviewStageConvener    = "convener"
	ReviewStageHod         = "hod"
)

// FolderReview represents an audit record for workflow decisions such as
// coordinator reviews or HOD final decisions.
type FolderReview struct {
	ReviewID    int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	FolderID    int       `gorm:"column:folder_id" json:"folder_id"`
	ReviewerID  int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	Stage       string    `gorm:"column:stage" json:"stage"`
	ReviewRound int       `gorm:"column:review_round" json:"review_round"`
	Decision    string    `gorm:"column:decision" json:"decision"`
	Comments    *string   `gorm:"column:comments" json:"comments"`
	ReviewedAt  time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for FolderReview.
func (FolderReview) TableName() string {
	return "folder_reviews"
}
