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

// ListAssessments returns a folder's assessments grouped the way the
// wizard renders them.
func ListAssessments(c *gin.Context) {
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

	var assessments []models.Assessment
	if err := config.DB.Where("folder_id = ?", folderID).
		Order("assessment_type ASC, number ASC").
		Find(&assessments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assessments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assessments": assessments,
		"total":       len(assessments),
	})
}

// UpsertAssessment creates or updates one assessment slot, accepting the
// question paper, model solution and records files in the same request.
func UpsertAssessment(c *gin.Context) {
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

	assessmentType := models.AssessmentType(strings.ToUpper(strings.TrimSpace(c.PostForm("assessment_type"))))
	if !models.IsValidAssessmentType(assessmentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment type"})
		return
	}

	number := 1
	if raw := strings.TrimSpace(c.PostForm("number")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment number"})
			return
		}
		number = n
	}
	// Midterm and final exams have a single slot.
	if assessmentType == models.AssessmentMidterm || assessmentType == models.AssessmentFinal {
		number = 1
	}

	now := time.Now()
	var assessment models.Assessment
	if err := config.DB.
		Where(models.Assessment{FolderID: folder.FolderID, AssessmentType: assessmentType, Number: number}).
		Attrs(models.Assessment{CreateAt: &now}).
		FirstOrCreate(&assessment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assessment"})
		return
	}

	updates := map[string]interface{}{"update_at": now}
	if title := strings.TrimSpace(c.PostForm("title")); title != "" {
		updates["title"] = title
	}
	if raw := strings.TrimSpace(c.PostForm("max_marks")); raw != "" {
		marks, err := strconv.ParseFloat(raw, 64)
		if err != nil || marks < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max marks"})
			return
		}
		updates["max_marks"] = marks
	}
	if raw := strings.TrimSpace(c.PostForm("weightage")); raw != "" {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil || weight < 0 || weight > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weightage"})
			return
		}
		updates["weightage"] = weight
	}

	fileColumns := map[string]string{
		"question_paper": "question_paper_file",
		"model_solution": "model_solution_file",
		"records":        "records_file",
	}
	for field, column := range fileColumns {
		file, err := c.FormFile(field)
		if err != nil || file == nil {
			continue
		}
		storedPath, saveErr := saveFolderUpload(c, folder.FolderID, file)
		if saveErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": saveErr.Error()})
			return
		}
		updates[column] = storedPath
	}

	if err := config.DB.Model(&models.Assessment{}).
		Where("assessment_id = ?", assessment.AssessmentID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save assessment"})
		return
	}

	if err := markFirstActivity(config.DB, folder, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	var saved models.Assessment
	if err := config.DB.First(&saved, assessment.AssessmentID).Error; err != nil {
		saved = assessment
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Assessment saved",
		"assessment": saved,
	})
}

// DeleteAssessment removes one assessment slot while the folder is editable.
func DeleteAssessment(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	assessmentID, ok := parseIDParam(c, "assessmentId")
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

	result := config.DB.Where("assessment_id = ? AND folder_id = ?", assessmentID, folderID).
		Delete(&models.Assessment{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete assessment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Assessment deleted"})
}
