package models

import "time"

// CourseLogEntry is one lecture row in a folder's course log.
// Lecture numbers are unique within a folder.
type CourseLogEntry struct {
	LogEntryID      int        `gorm:"primaryKey;column:log_entry_id" json:"log_entry_id"`
	FolderID        int        `gorm:"column:folder_id" json:"folder_id"`
	LectureNumber   int        `gorm:"column:lecture_number" json:"lecture_number"`
	LectureDate     *time.Time `gorm:"column:lecture_date" json:"lecture_date,omitempty"`
	DurationMinutes int        `gorm:"column:duration_minutes" json:"duration_minutes"`
	TopicsCovered   string     `gorm:"column:topics_covered" json:"topics_covered"`
	AttendanceFile  *string    `gorm:"column:attendance_file" json:"attendance_file,omitempty"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName specifies the table for CourseLogEntry.
func (CourseLogEntry) TableName() string {
	return "course_log_entries"
}
