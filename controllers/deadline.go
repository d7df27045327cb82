package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"course-folder-api/config"
	"course-folder-api/models"
	"course-folder-api/services"
)

type deadlineRequest struct {
	DeadlineType string  `json:"deadline_type" binding:"required"`
	TermID       int     `json:"term_id" binding:"required"`
	DepartmentID int     `json:"department_id"`
	DueAt        string  `json:"due_at" binding:"required"`
	Notes        *string `json:"notes"`
}

type deadlineUpdateRequest struct {
	DueAt *string `json:"due_at"`
	Notes *string `json:"notes"`
}

// parseDeadlineTime accepts RFC3339 or a local "YYYY-MM-DD HH:MM" stamp.
func parseDeadlineTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// canManageDeadline limits writes to admins and the department's own head.
func canManageDeadline(user *models.User, departmentID int) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	return user.Role == models.RoleHOD && user.DepartmentID != nil && *user.DepartmentID == departmentID
}

// notifyDeadlineChange tells faculty holding allocations in the deadline's
// term and department. Failures are logged, never surfaced to the request.
func notifyDeadlineChange(deadline *models.FolderDeadline, verb string) {
	var faculty []models.User
	err := config.DB.
		Distinct("users.*").
		Joins("JOIN course_allocations ca ON ca.faculty_id = users.user_id").
		Joins("JOIN courses c ON c.course_id = ca.course_id").
		Where("ca.term_id = ? AND c.department_id = ? AND ca.delete_at IS NULL",
			deadline.TermID, deadline.DepartmentID).
		Where("users.is_active = ? AND users.delete_at IS NULL", true).
		Find(&faculty).Error
	if err != nil {
		log.Printf("failed to load faculty for deadline %d: %v", deadline.DeadlineID, err)
		return
	}

	label := strings.ReplaceAll(strings.ToLower(string(deadline.DeadlineType)), "_", " ")
	title := fmt.Sprintf("Submission deadline %s", verb)
	message := fmt.Sprintf("The %s deadline is %s", label, deadline.DueAt.Format("Jan 2, 2006 15:04"))
	for _, u := range faculty {
		if err := services.CreateNotification(config.DB, u.UserID, title, message, models.NotificationDeadline, nil); err != nil {
			log.Printf("failed to notify user %d about deadline %d: %v", u.UserID, deadline.DeadlineID, err)
		}
	}
}

// ListDeadlines returns deadlines, optionally filtered by term, department and type.
func ListDeadlines(c *gin.Context) {
	query := config.DB.Model(&models.FolderDeadline{}).
		Preload("Term").
		Preload("Department")

	if termID, err := strconv.Atoi(c.Query("term_id")); err == nil && termID > 0 {
		query = query.Where("term_id = ?", termID)
	}
	if deptID, err := strconv.Atoi(c.Query("department_id")); err == nil && deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}
	if rawType := strings.TrimSpace(c.Query("deadline_type")); rawType != "" {
		dtype := models.DeadlineType(strings.ToUpper(rawType))
		if !models.IsValidDeadlineType(dtype) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline type"})
			return
		}
		query = query.Where("deadline_type = ?", dtype)
	}

	var deadlines []models.FolderDeadline
	if err := query.Order("due_at ASC").Find(&deadlines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deadlines"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"deadlines": deadlines,
		"total":     len(deadlines),
	})
}

// GetUpcomingDeadlines lists deadlines due within the window, scoped to the
// caller's department unless the caller is an administrator.
func GetUpcomingDeadlines(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	days := 14
	if v, err := strconv.Atoi(c.Query("days")); err == nil && v > 0 && v <= 120 {
		days = v
	}

	now := time.Now()
	until := now.Add(time.Duration(days) * 24 * time.Hour)

	query := config.DB.Model(&models.FolderDeadline{}).
		Preload("Term").
		Preload("Department").
		Where("due_at > ? AND due_at <= ?", now, until)

	if user.Role != models.RoleAdmin && user.DepartmentID != nil {
		query = query.Where("department_id = ?", *user.DepartmentID)
	}

	var deadlines []models.FolderDeadline
	if err := query.Order("due_at ASC").Find(&deadlines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deadlines"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"deadlines": deadlines,
		"window":    gin.H{"from": now, "until": until},
	})
}

// GetCurrentDeadlines returns the folder's applicable first and final
// submission deadlines, matched on the folder's term and department.
func GetCurrentDeadlines(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	folderID, err := strconv.Atoi(c.Query("folder_id"))
	if err != nil || folderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder_id is required"})
		return
	}

	folder, _, ok := loadReadableFolder(c, folderID, user)
	if !ok {
		return
	}

	lookup := func(dtype models.DeadlineType) *models.FolderDeadline {
		if folder.DepartmentID == nil {
			return nil
		}
		var deadline models.FolderDeadline
		err := config.DB.Preload("Term").
			Where("deadline_type = ? AND term_id = ? AND department_id = ?",
				dtype, folder.TermID, *folder.DepartmentID).
			Order("due_at DESC").
			First(&deadline).Error
		if err != nil {
			return nil
		}
		return &deadline
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"first_submission": lookup(models.DeadlineFirstSubmission),
		"final_submission": lookup(models.DeadlineFinalSubmission),
	})
}

// CreateDeadline sets a submission deadline for a term and department.
// Department heads may only set deadlines for their own department.
func CreateDeadline(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req deadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	dtype := models.DeadlineType(strings.ToUpper(strings.TrimSpace(req.DeadlineType)))
	if !models.IsValidDeadlineType(dtype) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline type"})
		return
	}

	dueAt, ok := parseDeadlineTime(req.DueAt)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Due date must be RFC3339 or YYYY-MM-DD HH:MM"})
		return
	}

	departmentID := req.DepartmentID
	if user.Role == models.RoleHOD {
		if user.DepartmentID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your account has no department"})
			return
		}
		departmentID = *user.DepartmentID
	}
	if departmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department_id is required"})
		return
	}
	if !canManageDeadline(user, departmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage deadlines for this department"})
		return
	}

	var term models.Term
	if err := config.DB.Where("term_id = ? AND delete_at IS NULL", req.TermID).First(&term).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}

	var existing int64
	if err := config.DB.Model(&models.FolderDeadline{}).
		Where("deadline_type = ? AND term_id = ? AND department_id = ?", dtype, req.TermID, departmentID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing deadlines"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A deadline of this type already exists for the term and department"})
		return
	}

	now := time.Now()
	deadline := models.FolderDeadline{
		DeadlineType: dtype,
		TermID:       req.TermID,
		DepartmentID: departmentID,
		DueAt:        dueAt,
		Notes:        req.Notes,
		CreatedBy:    user.UserID,
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if err := config.DB.Create(&deadline).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deadline"})
		return
	}

	notifyDeadlineChange(&deadline, "set")

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Deadline created",
		"deadline": deadline,
	})
}

// UpdateDeadline moves a deadline or rewrites its notes.
func UpdateDeadline(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req deadlineUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	var deadline models.FolderDeadline
	if err := config.DB.Where("deadline_id = ?", id).First(&deadline).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deadline not found"})
		return
	}
	if !canManageDeadline(user, deadline.DepartmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage deadlines for this department"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	dueMoved := false
	if req.DueAt != nil {
		dueAt, ok := parseDeadlineTime(*req.DueAt)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Due date must be RFC3339 or YYYY-MM-DD HH:MM"})
			return
		}
		updates["due_at"] = dueAt
		dueMoved = !dueAt.Equal(deadline.DueAt)
		deadline.DueAt = dueAt
	}
	if req.Notes != nil {
		updates["notes"] = ptr(strings.TrimSpace(*req.Notes))
	}

	if err := config.DB.Model(&deadline).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deadline"})
		return
	}

	if dueMoved {
		notifyDeadlineChange(&deadline, "updated")
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Deadline updated",
		"deadline": deadline,
	})
}

// DeleteDeadline removes a deadline outright.
func DeleteDeadline(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var deadline models.FolderDeadline
	if err := config.DB.Where("deadline_id = ?", id).First(&deadline).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deadline not found"})
		return
	}
	if !canManageDeadline(user, deadline.DepartmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage deadlines for this department"})
		return
	}

	if err := config.DB.Delete(&deadline).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete deadline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Deadline deleted"})
}
