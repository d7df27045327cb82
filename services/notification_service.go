package services

import (
	"fmt"
	"log"

	"course-folder-api/config"
	"course-folder-api/models"

	"gorm.io/gorm"
)

// CreateNotification inserts one in-app notification row.
func CreateNotification(db *gorm.DB, userID int, title, message string, ntype models.NotificationType, folderID *int) error {
	if db == nil {
		db = config.DB
	}
	n := models.Notification{
		UserID:          userID,
		Title:           title,
		Message:         message,
		Type:            ntype,
		RelatedFolderID: folderID,
	}
	return db.Create(&n).Error
}

// NotifyFolderEvent is the observer that fans committed folder events out
// into in-app notifications. Failures are logged, never propagated.
func NotifyFolderEvent(ev FolderEvent) {
	db := config.DB
	label := folderLabel(ev.Folder)
	folderID := ev.Folder.FolderID

	notify := func(userID int, title, message string, ntype models.NotificationType) {
		if err := CreateNotification(db, userID, title, message, ntype, &folderID); err != nil {
			log.Printf("failed to create notification for user %d: %v", userID, err)
		}
	}

	switch ev.Type {
	case EventStatusChanged:
		switch ev.NewStatus {
		case models.StatusSubmitted:
			for _, u := range coordinatorsFor(db, ev.Folder.CourseID, ev.Folder.TermID) {
				notify(u.UserID, "Folder submitted",
					fmt.Sprintf("%s was submitted for coordinator review", label),
					models.NotificationFolderSubmitted)
			}
		case models.StatusApprovedCoordinator:
			notify(ev.Folder.FacultyID, "Coordinator approved",
				fmt.Sprintf("%s passed coordinator review", label),
				models.NotificationFolderApproved)
			for _, u := range usersByRoleInDepartment(db, models.RoleConvener, ev.Folder.DepartmentID) {
				notify(u.UserID, "Ready for audit assignment",
					fmt.Sprintf("%s is awaiting audit team assignment", label),
					models.NotificationOther)
			}
		case models.StatusAuditCompleted:
			for _, u := range usersByRoleInDepartment(db, models.RoleConvener, ev.Folder.DepartmentID) {
				notify(u.UserID, "Audit completed",
					fmt.Sprintf("All audit reports for %s are in", label),
					models.NotificationOther)
			}
		case models.StatusSubmittedToHod:
			for _, u := range usersByRoleInDepartment(db, models.RoleHOD, ev.Folder.DepartmentID) {
				notify(u.UserID, "Folder forwarded",
					fmt.Sprintf("%s is awaiting your final decision", label),
					models.NotificationOther)
			}
		case models.StatusApprovedByHod:
			notify(ev.Folder.FacultyID, "Folder approved",
				fmt.Sprintf("%s received final HOD approval", label),
				models.NotificationFolderApproved)
		default:
			if ev.NewStatus.IsRejected() {
				message := fmt.Sprintf("%s was returned for rework", label)
				if ev.Notes != "" {
					message = fmt.Sprintf("%s: %s", message, ev.Notes)
				}
				notify(ev.Folder.FacultyID, "Folder returned", message,
					models.NotificationFolderReturned)
			}
		}

	case EventAuditAssigned:
		var assignments []models.AuditAssignment
		if err := db.Where("folder_id = ?", ev.Folder.FolderID).Find(&assignments).Error; err != nil {
			log.Printf("failed to load audit assignments for folder %d: %v", ev.Folder.FolderID, err)
			return
		}
		for _, a := range assignments {
			notify(a.AuditorID, "Audit assigned",
				fmt.Sprintf("You were assigned to audit %s", label),
				models.NotificationAuditAssigned)
		}

	case EventReportReceived:
		if ev.Folder.ConvenerAssignedBy != nil {
			notify(*ev.Folder.ConvenerAssignedBy, "Audit report received",
				fmt.Sprintf("An audit report for %s was submitted", label),
				models.NotificationOther)
		}

	case EventFeedbackSaved:
		notify(ev.Folder.FacultyID, "New section feedback",
			fmt.Sprintf("A reviewer left feedback on %s", label),
			models.NotificationOther)
	}
}

// MailFolderEvent is the observer that emails the people a decision affects.
// Sending happens in a goroutine so request handlers never wait on SMTP.
func MailFolderEvent(ev FolderEvent) {
	if ev.Type != EventStatusChanged {
		return
	}

	db := config.DB
	label := folderLabel(ev.Folder)

	var recipients []models.User
	var subject, body string

	switch {
	case ev.NewStatus == models.StatusSubmitted:
		recipients = coordinatorsFor(db, ev.Folder.CourseID, ev.Folder.TermID)
		subject = fmt.Sprintf("Course folder submitted: %s", label)
		body = fmt.Sprintf("<p>%s has been submitted and is waiting for your review.</p>", label)

	case ev.NewStatus == models.StatusApprovedByHod:
		recipients = ownerOf(db, ev.Folder)
		subject = fmt.Sprintf("Course folder approved: %s", label)
		body = fmt.Sprintf("<p>%s has received final approval from the head of department.</p>", label)

	case ev.NewStatus.IsRejected():
		recipients = ownerOf(db, ev.Folder)
		subject = fmt.Sprintf("Course folder returned: %s", label)
		body = fmt.Sprintf("<p>%s was returned for rework.</p>", label)
		if ev.Notes != "" {
			body += fmt.Sprintf("<p>Reviewer notes: %s</p>", ev.Notes)
		}

	default:
		return
	}

	var addresses []string
	for _, u := range recipients {
		if u.Email != "" {
			addresses = append(addresses, u.Email)
		}
	}
	if len(addresses) == 0 {
		return
	}

	go func() {
		if err := config.SendMail(addresses, subject, body); err != nil {
			log.Printf("failed to send folder mail %q: %v", subject, err)
		}
	}()
}

func folderLabel(f models.Folder) string {
	if f.Course != nil {
		label := fmt.Sprintf("%s %s (section %s)", f.Course.Code, f.Course.Title, f.Section)
		if f.Term != nil {
			label = fmt.Sprintf("%s %s (section %s, %s)", f.Course.Code, f.Course.Title, f.Section, f.Term.SessionTerm)
		}
		return label
	}
	return fmt.Sprintf("course folder #%d", f.FolderID)
}

func ownerOf(db *gorm.DB, f models.Folder) []models.User {
	if f.Faculty != nil {
		return []models.User{*f.Faculty}
	}
	var owner models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", f.FacultyID).First(&owner).Error; err != nil {
		log.Printf("failed to load owner of folder %d: %v", f.FolderID, err)
		return nil
	}
	return []models.User{owner}
}

func coordinatorsFor(db *gorm.DB, courseID, termID int) []models.User {
	var users []models.User
	err := db.
		Joins("JOIN course_coordinator_assignments cca ON cca.coordinator_id = users.user_id").
		Where("cca.course_id = ? AND cca.is_active = ? AND (cca.term_id IS NULL OR cca.term_id = ?)",
			courseID, true, termID).
		Where("users.delete_at IS NULL AND users.is_active = ?", true).
		Find(&users).Error
	if err != nil {
		log.Printf("failed to load coordinators for course %d: %v", courseID, err)
	}
	return users
}

func usersByRoleInDepartment(db *gorm.DB, role models.Role, departmentID *int) []models.User {
	if departmentID == nil {
		return nil
	}
	var users []models.User
	err := db.
		Where("role = ? AND department_id = ? AND is_active = ? AND delete_at IS NULL",
			role, *departmentID, true).
		Find(&users).Error
	if err != nil {
		log.Printf("failed to load %s users for department %d: %v", role, *departmentID, err)
	}
	return users
}
