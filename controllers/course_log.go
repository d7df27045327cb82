package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"course-folder-api/config"
	"course-folder-api/models"

	"github.com/gin-gonic/gin"
)

// ListCourseLog returns the folder's lecture log ordered by lecture number.
func ListCourseLog(c *gin.Context) {
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

	var entries []models.CourseLogEntry
	if err := config.DB.Where("folder_id = ?", folderID).
		Order("lecture_number ASC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch course log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entries": entries,
		"total":   len(entries),
	})
}

// UpsertCourseLogEntry creates or updates one lecture row, with an optional
// attendance sheet upload.
func UpsertCourseLogEntry(c *gin.Context) {
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

	lectureNumber, err := strconv.Atoi(strings.TrimSpace(c.PostForm("lecture_number")))
	if err != nil || lectureNumber <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lecture number"})
		return
	}

	topics := strings.TrimSpace(c.PostForm("topics_covered"))
	if topics == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topics covered is required"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"topics_covered": topics,
		"update_at":      now,
	}

	if raw := strings.TrimSpace(c.PostForm("lecture_date")); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Lecture date must be YYYY-MM-DD"})
			return
		}
		updates["lecture_date"] = date
	}
	if raw := strings.TrimSpace(c.PostForm("duration_minutes")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration"})
			return
		}
		updates["duration_minutes"] = minutes
	}

	if file, err := c.FormFile("attendance_file"); err == nil && file != nil {
		storedPath, saveErr := saveFolderUpload(c, folder.FolderID, file)
		if saveErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": saveErr.Error()})
			return
		}
		updates["attendance_file"] = storedPath
	}

	var entry models.CourseLogEntry
	if err := config.DB.
		Where(models.CourseLogEntry{FolderID: folder.FolderID, LectureNumber: lectureNumber}).
		Attrs(models.CourseLogEntry{CreateAt: &now}).
		FirstOrCreate(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log entry"})
		return
	}

	if err := config.DB.Model(&models.CourseLogEntry{}).
		Where("log_entry_id = ?", entry.LogEntryID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save log entry"})
		return
	}

	if err := markFirstActivity(config.DB, folder, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	var saved models.CourseLogEntry
	if err := config.DB.First(&saved, entry.LogEntryID).Error; err != nil {
		saved = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Log entry saved",
		"entry":   saved,
	})
}

// DeleteCourseLogEntry removes one lecture row while the folder is editable.
func DeleteCourseLogEntry(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "entryId")
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

	result := config.DB.Where("log_entry_id = ? AND folder_id = ?", entryID, folderID).
		Delete(&models.CourseLogEntry{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete log entry"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Log entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Log entry deleted"})
}
