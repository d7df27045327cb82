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

// CreateFolder opens a draft folder for one of the caller's course
// allocations. One folder per allocation.
func CreateFolder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		CourseAllocationID int `json:"course_allocation_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var allocation models.CourseAllocation
	if err := config.DB.Preload("Course").
		Where("allocation_id = ? AND delete_at IS NULL", req.CourseAllocationID).
		First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course allocation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load course allocation"})
		return
	}

	if allocation.FacultyID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allocated to this course section"})
		return
	}

	var existing int64
	if err := config.DB.Model(&models.Folder{}).
		Where("course_allocation_id = ? AND delete_at IS NULL", allocation.AllocationID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing folders"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A folder already exists for this course allocation"})
		return
	}

	now := time.Now()
	folder := models.Folder{
		CourseAllocationID: allocation.AllocationID,
		CourseID:           allocation.CourseID,
		FacultyID:          allocation.FacultyID,
		TermID:             allocation.TermID,
		Section:            allocation.Section,
		Status:             models.StatusDraft,
		CreateAt:           &now,
	}
	if allocation.Course != nil {
		folder.DepartmentID = allocation.Course.DepartmentID
		folder.ProgramID = allocation.Course.ProgramID
	}

	if err := config.DB.Create(&folder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create folder"})
		return
	}

	created, err := reloadFolder(folder.FolderID)
	if err != nil {
		created = folder
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Folder created",
		"folder":  created,
	})
}

// ListFolders returns the folders in the caller's lane: own folders for
// faculty, the review queue for coordinators, department folders for
// conveners and HODs, assigned folders for audit members, everything for
// admins.
func ListFolders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	query := folderPreloads(config.DB).Where("course_folders.delete_at IS NULL")

	if status := models.FolderStatus(c.Query("status")); status != "" {
		if !models.IsValidFolderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("course_folders.status = ?", status)
	}
	if termID, err := strconv.Atoi(c.Query("term_id")); err == nil && termID > 0 {
		query = query.Where("course_folders.term_id = ?", termID)
	}
	if courseID, err := strconv.Atoi(c.Query("course_id")); err == nil && courseID > 0 {
		query = query.Where("course_folders.course_id = ?", courseID)
	}

	switch user.Role {
	case models.RoleAdmin:
		// no extra scoping

	case models.RoleCoordinator:
		query = query.
			Joins("JOIN course_coordinator_assignments cca ON cca.course_id = course_folders.course_id").
			Where("cca.coordinator_id = ? AND cca.is_active = ? AND (cca.term_id IS NULL OR cca.term_id = course_folders.term_id)",
				user.UserID, true).
			Where("course_folders.status IN ?", models.CoordinatorActionableStatuses)

	case models.RoleConvener:
		if user.DepartmentID == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "folders": []models.Folder{}, "total": 0})
			return
		}
		query = query.Where("course_folders.department_id = ?", *user.DepartmentID).
			Where("course_folders.status IN ?", []models.FolderStatus{
				models.StatusApprovedCoordinator,
				models.StatusUnderAudit,
				models.StatusAuditCompleted,
				models.StatusSubmittedToHod,
				models.StatusRejectedByConvener,
			})

	case models.RoleAuditMember, models.RoleAuditTeam:
		query = query.
			Joins("JOIN audit_assignments aa ON aa.folder_id = course_folders.folder_id").
			Where("aa.auditor_id = ?", user.UserID)

	case models.RoleHOD:
		if user.DepartmentID == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "folders": []models.Folder{}, "total": 0})
			return
		}
		query = query.Where("course_folders.department_id = ?", *user.DepartmentID).
			Where("course_folders.status IN ?", []models.FolderStatus{
				models.StatusSubmittedToHod,
				models.StatusUnderReviewByHod,
				models.StatusApprovedByHod,
				models.StatusRejectedByHod,
			})

	default:
		query = query.Where("course_folders.faculty_id = ?", user.UserID)
	}

	var folders []models.Folder
	if err := query.Order("course_folders.update_at DESC").Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"folders": folders,
		"total":   len(folders),
	})
}

// GetFolder returns one folder together with the caller's review context,
// edit permission and the actions legal from the current status.
func GetFolder(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var folder models.Folder
	if err := folderPreloads(config.DB).
		Where("folder_id = ? AND delete_at IS NULL", folderID).
		First(&folder).Error; err != nil {
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

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"folder":            folder,
		"review_context":    rc,
		"can_edit":          services.CanEdit(&folder, rc),
		"available_actions": services.LegalActionsForFolder(&folder),
		"audit_summary":     services.SummarizeAudit(folder.AuditAssignments),
	})
}

// UpdateFolder lets the owner flip the wizard's completeness marker while
// the folder is editable.
func UpdateFolder(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		IsComplete *bool `json:"is_complete"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.IsComplete == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
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

	if !folder.IsOwnedBy(user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the folder owner can update it"})
		return
	}

	rc, err := services.ResolveReviewContext(config.DB, user, &folder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve review context"})
		return
	}
	if !services.CanEdit(&folder, rc) {
		c.JSON(http.StatusConflict, gin.H{"error": "Folder is read-only in its current status"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"is_complete": *req.IsComplete,
			"update_at":   now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	publishAndRespond(c, &folder, "Folder updated", nil)
}

// DeleteFolder soft deletes a draft that never entered the pipeline.
func DeleteFolder(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
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

	if !folder.IsOwnedBy(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the folder owner can delete it"})
		return
	}
	if folder.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft folders can be deleted"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete folder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Folder deleted"})
}

// GetFolderHistory lists the status trail and review rows for a folder.
func GetFolderHistory(c *gin.Context) {
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

	var history []models.FolderStatusHistory
	if err := config.DB.Preload("Actor").
		Where("folder_id = ?", folderID).
		Order("created_at ASC, history_id ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	var reviews []models.FolderReview
	if err := config.DB.Preload("Reviewer").
		Where("folder_id = ?", folderID).
		Order("reviewed_at ASC, review_id ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
		"reviews": reviews,
	})
}

// ListMyFolders returns the caller's own folders regardless of role, so
// reviewers who also teach see their teaching side here.
func ListMyFolders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	query := folderPreloads(config.DB).
		Where("course_folders.delete_at IS NULL").
		Where("course_folders.faculty_id = ?", userID)

	if status := models.FolderStatus(c.Query("status")); status != "" {
		if !models.IsValidFolderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("course_folders.status = ?", status)
	}
	if termID, err := strconv.Atoi(c.Query("term_id")); err == nil && termID > 0 {
		query = query.Where("course_folders.term_id = ?", termID)
	}

	var folders []models.Folder
	if err := query.Order("course_folders.update_at DESC").Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"folders": folders,
		"total":   len(folders),
	})
}

// GetFolderStatusCounts returns how many folders sit in each status within
// the caller's scope. Conveners and HODs count their department; admins
// count everything, optionally narrowed by department_id.
func GetFolderStatusCounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	query := config.DB.Model(&models.Folder{}).Where("delete_at IS NULL")

	switch user.Role {
	case models.RoleAdmin:
		if deptID, err := strconv.Atoi(c.Query("department_id")); err == nil && deptID > 0 {
			query = query.Where("department_id = ?", deptID)
		}
	case models.RoleConvener, models.RoleHOD:
		if user.DepartmentID == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "counts": gin.H{}, "total": 0})
			return
		}
		query = query.Where("department_id = ?", *user.DepartmentID)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to status counts"})
		return
	}

	if termID, err := strconv.Atoi(c.Query("term_id")); err == nil && termID > 0 {
		query = query.Where("term_id = ?", termID)
	}

	var rows []struct {
		Status models.FolderStatus `json:"status"`
		Count  int64               `json:"count"`
	}
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count folders"})
		return
	}

	counts := make(map[models.FolderStatus]int64, len(rows))
	var total int64
	for _, row := range rows {
		counts[row.Status] = row.Count
		total += row.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"counts":  counts,
		"total":   total,
	})
}

// GetFolderBasic returns the folder's identity and lifecycle flags without
// relations, enough for list cards and page headers.
func GetFolderBasic(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	folder, rc, ok := loadReadableFolder(c, folderID, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"folder": gin.H{
			"folder_id":                     folder.FolderID,
			"course_allocation_id":          folder.CourseAllocationID,
			"course_id":                     folder.CourseID,
			"faculty_id":                    folder.FacultyID,
			"term_id":                       folder.TermID,
			"section":                       folder.Section,
			"department_id":                 folder.DepartmentID,
			"status":                        folder.Status,
			"submitted_at":                  folder.SubmittedAt,
			"is_complete":                   folder.IsComplete,
			"first_activity_completed":      folder.FirstActivityCompleted,
			"can_edit_for_final_submission": folder.CanEditForFinalSubmission,
		},
		"can_edit":          services.CanEdit(folder, rc),
		"available_actions": services.LegalActionsForFolder(folder),
	})
}

// ListFolderAuditAssignments returns the folder's audit assignments with
// the aggregated summary.
func ListFolderAuditAssignments(c *gin.Context) {
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

	var assignments []models.AuditAssignment
	if err := config.DB.Preload("Auditor").
		Where("folder_id = ?", folderID).
		Order("assigned_at ASC, assignment_id ASC").
		Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"assignments":   assignments,
		"total":         len(assignments),
		"audit_summary": services.SummarizeAudit(assignments),
	})
}
