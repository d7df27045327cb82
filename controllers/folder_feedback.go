package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"course-folder-api/config"
	"course-folder-api/models"
	"course-folder-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type sectionFeedbackRequest struct {
	Section string `json:"section" binding:"required"`
	Notes   string `json:"notes"`
}

// SaveCoordinatorFeedback attaches a section-scoped note in the
// coordinator's namespace. Re-saving a section overwrites its note.
func SaveCoordinatorFeedback(c *gin.Context) {
	saveSectionFeedback(c, "coordinator_feedback", models.CoordinatorFeedbackStatuses,
		func(tx *gorm.DB, user *models.User, folder *models.Folder) (bool, error) {
			if user.Role == models.RoleAdmin {
				return true, nil
			}
			return services.IsAssignedCoordinator(tx, user.UserID, folder.CourseID, folder.TermID)
		},
		func(folder *models.Folder) models.SectionNotes { return folder.CoordinatorFeedback },
	)
}

// SaveAuditMemberFeedback attaches a section-scoped note in the audit
// team's namespace.
func SaveAuditMemberFeedback(c *gin.Context) {
	saveSectionFeedback(c, "audit_member_feedback", models.AuditFeedbackStatuses,
		func(tx *gorm.DB, user *models.User, folder *models.Folder) (bool, error) {
			if user.Role == models.RoleAdmin {
				return true, nil
			}
			var count int64
			err := tx.Model(&models.AuditAssignment{}).
				Where("folder_id = ? AND auditor_id = ?", folder.FolderID, user.UserID).
				Count(&count).Error
			return count > 0, err
		},
		func(folder *models.Folder) models.SectionNotes { return folder.AuditMemberFeedback },
	)
}

func saveSectionFeedback(c *gin.Context, column string, allowedStatuses []models.FolderStatus,
	mayWrite func(*gorm.DB, *models.User, *models.Folder) (bool, error),
	notesOf func(*models.Folder) models.SectionNotes) {

	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req sectionFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Section keys come from a closed vocabulary; anything unknown is a
	// writer/reader mismatch waiting to happen, so reject it outright.
	key, err := models.ParseSectionKey(req.Section)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	folder, ok := loadFolderTx(c, tx, folderID)
	if !ok {
		return
	}

	allowed, err := mayWrite(tx, user, folder)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return
	}
	if !allowed {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot leave feedback on this folder"})
		return
	}

	if !folder.Status.In(allowedStatuses...) {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Feedback is not open in the folder's current status"})
		return
	}

	notes := notesOf(folder)
	if notes == nil {
		notes = models.SectionNotes{}
	}
	notes[key.String()] = strings.TrimSpace(req.Notes)

	now := time.Now()
	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			column:      notes,
			"update_at": now,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize feedback"})
		return
	}

	services.PublishFolderEvent(services.FolderEvent{
		Type:    services.EventFeedbackSaved,
		Folder:  *folder,
		ActorID: user.UserID,
		Notes:   notes[key.String()],
	})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Feedback saved",
		"section":  key.String(),
		"feedback": notes,
	})
}

// GetFolderFeedback returns both feedback namespaces for a folder.
func GetFolderFeedback(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var folder models.Folder
	if err := config.DB.Where("folder_id = ? AND delete_at IS NULL", folderID).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load folder"})
		return
	}

	rc, err := services.ResolveReviewContext(config.DB, user, &folder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve review context"})
		return
	}
	if !folder.IsOwnedBy(user.UserID) && !rc.IsReview() && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this folder"})
		return
	}

	coordinator := folder.CoordinatorFeedback
	if coordinator == nil {
		coordinator = models.SectionNotes{}
	}
	audit := folder.AuditMemberFeedback
	if audit == nil {
		audit = models.SectionNotes{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"coordinator_feedback":  coordinator,
		"audit_member_feedback": audit,
	})
}
