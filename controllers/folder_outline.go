package controllers

import (
	"errors"
	"net/http"

	"course-folder-api/config"
	"course-folder-api/models"
	"course-folder-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetOutline returns the folder's outline content.
func GetOutline(c *gin.Context) {
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

	content := folder.OutlineContent
	if content == nil {
		content = models.JSONMap{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"outline":  content,
		"can_edit": services.CanEdit(&folder, rc),
	})
}

// SaveOutlineContent merges a partial outline update into the stored
// content and snapshots the new version.
func SaveOutlineContent(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var patch models.JSONMap
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid outline payload"})
		return
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Outline update is empty"})
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

	rc, err := services.ResolveReviewContext(tx, user, folder)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve review context"})
		return
	}

	if !folder.IsOwnedBy(user.UserID) && !rc.IsReview() && user.Role != models.RoleAdmin {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this folder"})
		return
	}
	if !services.CanEdit(folder, rc) {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Folder is read-only in its current status"})
		return
	}

	merged, err := services.SaveOutline(tx, folder, patch, user.UserID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save outline"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize outline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Outline saved",
		"outline": merged,
	})
}

// ListOutlineSnapshots returns the saved outline versions, newest first.
func ListOutlineSnapshots(c *gin.Context) {
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

	var snapshots []models.OutlineSnapshot
	if err := config.DB.Where("folder_id = ?", folderID).
		Order("snapshot_id DESC").
		Limit(50).
		Find(&snapshots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch snapshots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"snapshots": snapshots,
		"total":     len(snapshots),
	})
}
