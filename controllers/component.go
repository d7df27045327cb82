package controllers

import (
	"net/http"
	"strings"
	"time"

	"course-folder-api/config"
	"course-folder-api/models"

	"github.com/gin-gonic/gin"
)

// ListComponents returns a folder's attached documents.
func ListComponents(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if _, _, ok := loadReadableFolder(c, folderID, user); !ok {
		return
	}

	var components []models.FolderComponent
	if err := config.DB.Where("folder_id = ?", folderID).
		Order("component_id ASC").
		Find(&components).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch components"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"components": components,
		"total":      len(components),
	})
}

// UploadComponent attaches a document or text block to the folder.
func UploadComponent(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	folder, ok := loadEditableFolder(c, folderID, user)
	if !ok {
		return
	}

	componentType := models.ComponentType(strings.ToUpper(strings.TrimSpace(c.PostForm("component_type"))))
	if !models.IsValidComponentType(componentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid component type"})
		return
	}

	content := strings.TrimSpace(c.PostForm("content"))
	file, fileErr := c.FormFile("file")
	if content == "" && (fileErr != nil || file == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file or text content is required"})
		return
	}

	now := time.Now()
	component := models.FolderComponent{
		FolderID:      folder.FolderID,
		ComponentType: componentType,
		Title:         ptr(strings.TrimSpace(c.PostForm("title"))),
		Content:       ptr(content),
		UploadedBy:    intPtr(user.UserID),
		CreateAt:      &now,
	}

	if fileErr == nil && file != nil {
		storedPath, saveErr := saveFolderUpload(c, folder.FolderID, file)
		if saveErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": saveErr.Error()})
			return
		}
		component.FilePath = &storedPath
	}

	if err := config.DB.Create(&component).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save component"})
		return
	}

	if err := markFirstActivity(config.DB, folder, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Component saved",
		"component": component,
	})
}

// DeleteComponent removes an attached document while the folder is editable.
func DeleteComponent(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	componentID, ok := parseIDParam(c, "componentId")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if _, ok := loadEditableFolder(c, folderID, user); !ok {
		return
	}

	result := config.DB.Where("component_id = ? AND folder_id = ?", componentID, folderID).
		Delete(&models.FolderComponent{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete component"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Component deleted"})
}
