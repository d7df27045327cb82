package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"course-folder-api/config"
	"course-folder-api/models"
	"course-folder-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxUploadSize = 20 << 20 // 20MB

var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".csv":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".zip":  true,
}

func ptr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func intPtr(value int) *int {
	return &value
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// requireUserID pulls the authenticated user id set by the auth middleware.
func requireUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, false
	}
	userID, ok := value.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return 0, false
	}
	return userID, true
}

// currentUser loads the authenticated user record.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

// loadFolderTx fetches the folder inside the caller's transaction, rolling
// back and answering the request itself when the folder cannot be loaded.
func loadFolderTx(c *gin.Context, tx *gorm.DB, folderID int) (*models.Folder, bool) {
	var folder models.Folder
	if err := tx.Where("folder_id = ? AND delete_at IS NULL", folderID).First(&folder).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load folder"})
		return nil, false
	}
	return &folder, true
}

// folderPreloads attaches the relations folder responses carry.
func folderPreloads(db *gorm.DB) *gorm.DB {
	return db.Preload("Course").
		Preload("Faculty").
		Preload("Term").
		Preload("Department").
		Preload("AuditAssignments").
		Preload("AuditAssignments.Auditor")
}

// reloadFolder fetches the folder with relations after a commit.
func reloadFolder(folderID int) (models.Folder, error) {
	var folder models.Folder
	err := folderPreloads(config.DB).First(&folder, folderID).Error
	return folder, err
}

// recordReview appends a review row for the stage, numbering rounds
// per folder and stage.
func recordReview(tx *gorm.DB, folderID, reviewerID int, stage, decision string, comments *string, now time.Time) error {
	var round int64
	if err := tx.Model(&models.FolderReview{}).
		Where("folder_id = ? AND stage = ?", folderID, stage).
		Count(&round).Error; err != nil {
		return err
	}

	review := models.FolderReview{
		FolderID:    folderID,
		ReviewerID:  reviewerID,
		Stage:       stage,
		ReviewRound: int(round) + 1,
		Decision:    decision,
		Comments:    comments,
		ReviewedAt:  now,
	}
	return tx.Create(&review).Error
}

// recordHistory appends a status history row.
func recordHistory(tx *gorm.DB, folderID int, oldStatus, newStatus models.FolderStatus, changedBy int, reason, notes *string, now time.Time) error {
	history := models.FolderStatusHistory{
		FolderID:  folderID,
		OldStatus: &oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Reason:    reason,
		Notes:     notes,
		CreatedAt: now,
	}
	return tx.Create(&history).Error
}

// loadReadableFolder loads a folder the caller may at least view, answering
// the request itself on failure.
func loadReadableFolder(c *gin.Context, folderID int, user *models.User) (*models.Folder, services.ReviewContext, bool) {
	var folder models.Folder
	if err := config.DB.Where("folder_id = ? AND delete_at IS NULL", folderID).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
			return nil, services.ReviewContext{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load folder"})
		return nil, services.ReviewContext{}, false
	}

	rc, err := services.ResolveReviewContext(config.DB, user, &folder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve review context"})
		return nil, services.ReviewContext{}, false
	}
	if !folder.IsOwnedBy(user.UserID) && !rc.IsReview() && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this folder"})
		return nil, services.ReviewContext{}, false
	}

	return &folder, rc, true
}

// loadEditableFolder loads a folder the caller may modify content in,
// answering the request itself on failure.
func loadEditableFolder(c *gin.Context, folderID int, user *models.User) (*models.Folder, bool) {
	folder, rc, ok := loadReadableFolder(c, folderID, user)
	if !ok {
		return nil, false
	}
	if !services.CanEdit(folder, rc) {
		c.JSON(http.StatusConflict, gin.H{"error": "Folder is read-only in its current status"})
		return nil, false
	}
	return folder, true
}

// markFirstActivity flips the folder's first-edit marker once.
func markFirstActivity(db *gorm.DB, folder *models.Folder, now time.Time) error {
	if folder.FirstActivityCompleted {
		return nil
	}
	if err := db.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"first_activity_completed": true,
			"update_at":                now,
		}).Error; err != nil {
		return err
	}
	folder.FirstActivityCompleted = true
	return nil
}

// publishAndRespond reloads the folder after a commit, delivers the events
// with the fresh copy attached, and answers with the standard success
// envelope. extra keys merge into the response.
func publishAndRespond(c *gin.Context, folder *models.Folder, message string, extra gin.H, events ...services.FolderEvent) {
	if updated, err := reloadFolder(folder.FolderID); err == nil {
		*folder = updated
	}

	for i := range events {
		events[i].Folder = *folder
		services.PublishFolderEvent(events[i])
	}

	payload := gin.H{
		"success":           true,
		"message":           message,
		"folder":            *folder,
		"available_actions": services.LegalActionsForFolder(folder),
	}
	for k, v := range extra {
		payload[k] = v
	}

	c.JSON(http.StatusOK, payload)
}
