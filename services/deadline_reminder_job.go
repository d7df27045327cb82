package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"course-folder-api/config"
	"course-folder-api/models"

	"gorm.io/gorm"
)

var (
	ErrDeadlineReminderAlreadyRunning = errors.New("deadline reminder already running")
)

type DeadlineReminderSummary struct {
	DeadlinesChecked int `json:"deadlines_checked"`
	FoldersExamined  int `json:"folders_examined"`
	RemindersSent    int `json:"reminders_sent"`
	AlreadyReminded  int `json:"already_reminded"`
	Errors           int `json:"errors"`
}

type DeadlineReminderInput struct {
	LockName string
	// Window is how far ahead of a due date reminders start going out.
	Window time.Duration
	Now    time.Time
	DryRun bool
	Mail   bool
}

type DeadlineReminderService struct {
	db *gorm.DB
}

func NewDeadlineReminderService(db *gorm.DB) *DeadlineReminderService {
	if db == nil {
		db = config.DB
	}
	return &DeadlineReminderService{db: db}
}

// RunOnce reminds owners of folders still outstanding against deadlines
// falling inside the window. A reminder already sent in the last day is
// not repeated.
func (s *DeadlineReminderService) RunOnce(ctx context.Context, input *DeadlineReminderInput) (*DeadlineReminderSummary, error) {
	if input == nil {
		return nil, errors.New("input is nil")
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	window := input.Window
	if window <= 0 {
		window = 72 * time.Hour
	}

	summary := &DeadlineReminderSummary{}

	release, err := s.acquireLock(ctx, input.LockName)
	if err != nil {
		return nil, err
	}
	if release != nil {
		defer func() {
			if relErr := release(); relErr != nil {
				log.Printf("failed to release deadline reminder lock: %v", relErr)
			}
		}()
	}

	var deadlines []models.FolderDeadline
	if err := s.db.WithContext(ctx).
		Where("due_at > ? AND due_at <= ?", now, now.Add(window)).
		Order("deadline_id ASC").
		Find(&deadlines).Error; err != nil {
		return nil, err
	}

	for _, deadline := range deadlines {
		summary.DeadlinesChecked++
		if err := s.processDeadline(ctx, &deadline, now, input, summary); err != nil {
			summary.Errors++
			log.Printf("deadline reminder failed for deadline %d: %v", deadline.DeadlineID, err)
		}
	}

	return summary, nil
}

func (s *DeadlineReminderService) processDeadline(ctx context.Context, deadline *models.FolderDeadline, now time.Time, input *DeadlineReminderInput, summary *DeadlineReminderSummary) error {
	query := s.db.WithContext(ctx).
		Where("term_id = ? AND department_id = ? AND delete_at IS NULL", deadline.TermID, deadline.DepartmentID)

	switch deadline.DeadlineType {
	case models.DeadlineFirstSubmission:
		query = query.Where("status IN ?", []models.FolderStatus{
			models.StatusDraft,
			models.StatusRejectedCoordinator,
			models.StatusRejectedByConvener,
			models.StatusRejectedByHod,
		})
	case models.DeadlineFinalSubmission:
		query = query.Where("can_edit_for_final_submission = ?", true)
	default:
		return fmt.Errorf("unknown deadline type %q", deadline.DeadlineType)
	}

	var folders []models.Folder
	if err := query.Order("folder_id ASC").Find(&folders).Error; err != nil {
		return err
	}

	for _, folder := range folders {
		summary.FoldersExamined++

		sent, err := s.remindOwner(ctx, &folder, deadline, now, input)
		if err != nil {
			summary.Errors++
			log.Printf("deadline reminder failed for folder %d: %v", folder.FolderID, err)
			continue
		}
		if sent {
			summary.RemindersSent++
		} else {
			summary.AlreadyReminded++
		}
	}

	return nil
}

func (s *DeadlineReminderService) remindOwner(ctx context.Context, folder *models.Folder, deadline *models.FolderDeadline, now time.Time, input *DeadlineReminderInput) (bool, error) {
	// One reminder per folder per day is enough.
	var recent int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND related_folder_id = ? AND type = ? AND create_at > ?",
			folder.FacultyID, folder.FolderID, models.NotificationDeadline, now.Add(-24*time.Hour)).
		Count(&recent).Error; err != nil {
		return false, err
	}
	if recent > 0 {
		return false, nil
	}

	hoursLeft := int(deadline.DueAt.Sub(now).Hours())
	cycle := "first submission"
	if deadline.DeadlineType == models.DeadlineFinalSubmission {
		cycle = "final submission"
	}
	title := "Submission deadline approaching"
	message := fmt.Sprintf("The %s deadline for course folder #%d is in about %d hours (%s)",
		cycle, folder.FolderID, hoursLeft, deadline.DueAt.Format("2006-01-02 15:04"))

	if input.DryRun {
		return true, nil
	}

	notification := models.Notification{
		UserID:          folder.FacultyID,
		Title:           title,
		Message:         message,
		Type:            models.NotificationDeadline,
		RelatedFolderID: &folder.FolderID,
		CreateAt:        now,
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return false, err
	}

	if input.Mail {
		var owner models.User
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND delete_at IS NULL", folder.FacultyID).
			First(&owner).Error; err != nil {
			log.Printf("failed to load owner for deadline mail, folder %d: %v", folder.FolderID, err)
		} else if owner.Email != "" {
			go func(to, subject, body string) {
				if err := config.SendMail([]string{to}, subject, body); err != nil {
					log.Printf("failed to send deadline mail to %s: %v", to, err)
				}
			}(owner.Email, title, "<p>"+message+"</p>")
		}
	}

	return true, nil
}

func (s *DeadlineReminderService) acquireLock(ctx context.Context, lockName string) (func() error, error) {
	if strings.TrimSpace(lockName) == "" {
		return nil, nil
	}

	var ok int
	if err := s.db.WithContext(ctx).Raw("SELECT GET_LOCK(?, 0)", lockName).Scan(&ok).Error; err != nil {
		return nil, err
	}
	if ok != 1 {
		return nil, ErrDeadlineReminderAlreadyRunning
	}

	return func() error {
		var released int
		releaseCtx := persistentContext(ctx)
		if err := s.db.WithContext(releaseCtx).Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&released).Error; err != nil {
			return err
		}
		return nil
	}, nil
}
