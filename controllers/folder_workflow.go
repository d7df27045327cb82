package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"course-folder-api/config"
	"course-folder-api/models"
	"course-folder-api/services"
	"course-folder-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubmitFolder moves an owner's folder into the review pipeline.
func SubmitFolder(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
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

	if !folder.IsOwnedBy(userID) {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the folder owner can submit it"})
		return
	}

	// A folder approved by the HOD only re-enters the pipeline while the
	// final-submission window is open.
	if folder.Status == models.StatusApprovedByHod && !folder.CanEditForFinalSubmission {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Folder review is already closed"})
		return
	}

	newStatus, err := services.ResolveTransition(services.ActionSubmit, folder.Status)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	hasCoordinator, err := services.HasActiveCoordinator(tx, folder.CourseID, folder.TermID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check coordinator assignment"})
		return
	}
	if !hasCoordinator {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "No course coordinator is assigned for this course"})
		return
	}

	now := time.Now()
	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"status":                        newStatus,
			"submitted_at":                  now,
			"can_edit_for_final_submission": false,
			"update_at":                     now,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit folder"})
		return
	}

	reason := "Folder submitted for review"
	switch {
	case folder.Status == models.StatusApprovedByHod:
		reason = "Folder resubmitted for the final-submission review"
	case folder.Status.IsRejected():
		reason = "Folder resubmitted after rework"
	}

	if err := recordHistory(tx, folder.FolderID, folder.Status, newStatus, userID, ptr(reason), nil, now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	oldStatus := folder.Status
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize submission"})
		return
	}

	publishAndRespond(c, folder, "Folder submitted successfully", nil, services.FolderEvent{
		Type:      services.EventStatusChanged,
		ActorID:   userID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Action:    services.ActionSubmit,
	})
}

// CoordinatorReview records the coordinator's approve/reject decision.
func CoordinatorReview(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var action services.FolderAction
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "approve", "approved":
		action = services.ActionCoordinatorApprove
	case "reject", "rejected":
		action = services.ActionCoordinatorReject
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be either 'approve' or 'reject'"})
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

	assigned, err := services.IsAssignedCoordinator(tx, userID, folder.CourseID, folder.TermID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check coordinator assignment"})
		return
	}
	if !assigned {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the coordinator for this course"})
		return
	}

	newStatus, err := services.ResolveTransition(action, folder.Status)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	decision := "approved"
	message := "Folder approved by coordinator"
	if action == services.ActionCoordinatorReject {
		decision = "rejected"
		message = "Folder returned to the faculty member"
	}

	now := time.Now()
	notes := strings.TrimSpace(req.Notes)

	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"status":                  newStatus,
			"coordinator_reviewed_at": now,
			"coordinator_reviewed_by": userID,
			"coordinator_decision":    decision,
			"coordinator_notes":       ptr(notes),
			"update_at":               now,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	if err := recordReview(tx, folder.FolderID, userID, models.ReviewStageCoordinator, decision, ptr(notes), now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review record"})
		return
	}

	historyNote := fmt.Sprintf("coordinator_review:%s", decision)
	if err := recordHistory(tx, folder.FolderID, folder.Status, newStatus, userID, ptr(notes), ptr(historyNote), now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	oldStatus := folder.Status
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize decision"})
		return
	}

	publishAndRespond(c, folder, message, nil, services.FolderEvent{
		Type:      services.EventStatusChanged,
		ActorID:   userID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Action:    action,
		Notes:     notes,
	})
}

// AssignAudit attaches an audit team to a coordinator-approved folder.
func AssignAudit(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		AuditorIDs []int  `json:"auditor_ids" binding:"required"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Dedupe while keeping the request order.
	seen := map[int]bool{}
	var auditorIDs []int
	for _, id := range req.AuditorIDs {
		if id > 0 && !seen[id] {
			seen[id] = true
			auditorIDs = append(auditorIDs, id)
		}
	}
	if len(auditorIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one auditor is required"})
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

	if !canActAsConvener(tx, user, folder) {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the department convener can assign the audit team"})
		return
	}

	newStatus, err := services.ResolveTransition(services.ActionAssignAudit, folder.Status)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var auditors []models.User
	if err := tx.Where("user_id IN ? AND is_active = ? AND delete_at IS NULL", auditorIDs, true).
		Find(&auditors).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load auditors"})
		return
	}
	if len(auditors) != len(auditorIDs) {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more auditors were not found"})
		return
	}
	for _, auditor := range auditors {
		if !auditor.Role.HasAuditAccess() {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s is not an audit team member", auditor.FullName)})
			return
		}
		if auditor.UserID == folder.FacultyID {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "The folder owner cannot audit their own folder"})
			return
		}
	}

	// Clear anything left over from a previous assignment cycle so every
	// auditor starts from a pending decision.
	if err := tx.Where("folder_id = ?", folder.FolderID).Delete(&models.AuditAssignment{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset previous assignments"})
		return
	}

	now := time.Now()
	for _, auditorID := range auditorIDs {
		assignment := models.AuditAssignment{
			FolderID:     folder.FolderID,
			AuditorID:    auditorID,
			AssignedByID: intPtr(user.UserID),
			AssignedAt:   now,
			Decision:     models.AuditDecisionPending,
			CreateAt:     &now,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create audit assignment"})
			return
		}
	}

	notes := strings.TrimSpace(req.Notes)
	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"status":               newStatus,
			"convener_assigned_at": now,
			"convener_assigned_by": user.UserID,
			"convener_notes":       ptr(notes),
			"audit_completed_at":   nil,
			"update_at":            now,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	reason := fmt.Sprintf("Audit team assigned (%d auditors)", len(auditorIDs))
	if err := recordHistory(tx, folder.FolderID, folder.Status, newStatus, user.UserID, ptr(reason), ptr(notes), now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	oldStatus := folder.Status
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize assignment"})
		return
	}

	publishAndRespond(c, folder, "Audit team assigned", nil,
		services.FolderEvent{
			Type:      services.EventStatusChanged,
			ActorID:   user.UserID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Action:    services.ActionAssignAudit,
		},
		services.FolderEvent{
			Type:    services.EventAuditAssigned,
			ActorID: user.UserID,
		})
}

// UnassignAudit dissolves the audit team and returns the folder to the
// coordinator-approved state.
func UnassignAudit(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
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

	if !canActAsConvener(tx, user, folder) {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the department convener can unassign the audit team"})
		return
	}

	newStatus, err := services.ResolveTransition(services.ActionUnassignAudit, folder.Status)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Where("folder_id = ?", folder.FolderID).Delete(&models.AuditAssignment{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove audit assignments"})
		return
	}

	now := time.Now()
	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"status":               newStatus,
			"convener_assigned_at": nil,
			"convener_assigned_by": nil,
			"audit_completed_at":   nil,
			"update_at":            now,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	if err := recordHistory(tx, folder.FolderID, folder.Status, newStatus, user.UserID, ptr("Audit team unassigned"), nil, now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	oldStatus := folder.Status
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize unassignment"})
		return
	}

	publishAndRespond(c, folder, "Audit team unassigned", nil, services.FolderEvent{
		Type:      services.EventStatusChanged,
		ActorID:   user.UserID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Action:    services.ActionUnassignAudit,
	})
}

// SubmitAuditReport records one auditor's decision, remarks and optional
// report file. The folder advances once the whole team has reported.
func SubmitAuditReport(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	decision, err := models.NormalizeAuditDecision(c.PostForm("decision"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	remarks := strings.TrimSpace(c.PostForm("remarks"))

	var ratings models.RatingMap
	if raw := strings.TrimSpace(c.PostForm("ratings")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &ratings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ratings payload"})
			return
		}
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

	var assignment models.AuditAssignment
	if err := tx.Where("folder_id = ? AND auditor_id = ?", folder.FolderID, userID).
		First(&assignment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not assigned to audit this folder"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit assignment"})
		return
	}

	if _, err := services.ResolveTransition(services.ActionSubmitAuditReport, folder.Status); err != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"decision":              decision,
		"remarks":               ptr(remarks),
		"feedback_submitted":    true,
		"feedback_submitted_at": now,
		"update_at":             now,
	}
	if ratings != nil {
		updates["ratings"] = ratings
	}

	if file, err := c.FormFile("feedback_file"); err == nil && file != nil {
		storedPath, saveErr := saveFolderUpload(c, folder.FolderID, file)
		if saveErr != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": saveErr.Error()})
			return
		}
		updates["feedback_file"] = storedPath
	}

	if err := tx.Model(&models.AuditAssignment{}).
		Where("assignment_id = ?", assignment.AssignmentID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save audit report"})
		return
	}

	if err := recordReview(tx, folder.FolderID, userID, models.ReviewStageAudit,
		strings.ToLower(string(decision)), ptr(remarks), now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review record"})
		return
	}

	oldStatus := folder.Status
	moved, summary, err := services.CompleteAuditIfReady(tx, folder, userID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate audit reports"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize audit report"})
		return
	}

	events := []services.FolderEvent{{
		Type:    services.EventReportReceived,
		ActorID: userID,
		Notes:   remarks,
	}}
	if moved {
		events = append(events, services.FolderEvent{
			Type:      services.EventStatusChanged,
			ActorID:   userID,
			OldStatus: oldStatus,
			NewStatus: folder.Status,
			Action:    services.ActionCompleteAudit,
		})
	}

	publishAndRespond(c, folder, "Audit report submitted", gin.H{"audit_summary": summary}, events...)
}

// ConvenerReview forwards an audited folder to the HOD or rejects it.
func ConvenerReview(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var action services.FolderAction
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "forward", "forward_to_hod", "submit_to_hod":
		action = services.ActionForwardToHod
	case "reject", "rejected":
		action = services.ActionConvenerReject
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be either 'forward_to_hod' or 'reject'"})
		return
	}

	notes := strings.TrimSpace(req.Notes)
	if services.NotesRequired(action) && notes == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Notes are required when rejecting a folder"})
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

	if !canActAsConvener(tx, user, folder) {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the department convener can review this folder"})
		return
	}

	newStatus, err := services.ResolveTransition(action, folder.Status)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	// Revisiting an earlier call is reserved for the convener who made it.
	if folder.Status != models.StatusAuditCompleted {
		var last models.FolderReview
		err := tx.Where("folder_id = ? AND stage = ?", folder.FolderID, models.ReviewStageConvener).
			Order("reviewed_at DESC, review_id DESC").
			First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review history"})
			return
		}
		if err == nil && last.ReviewerID != user.UserID {
			tx.Rollback()
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the convener who made the original decision can revise it"})
			return
		}
	}

	decision := "forwarded"
	message := "Folder forwarded to the head of department"
	if action == services.ActionConvenerReject {
		decision = "rejected"
		message = "Folder returned to the faculty member"
	}

	now := time.Now()
	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(map[string]interface{}{
			"status":         newStatus,
			"convener_notes": ptr(notes),
			"update_at":      now,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	if err := recordReview(tx, folder.FolderID, user.UserID, models.ReviewStageConvener, decision, ptr(notes), now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review record"})
		return
	}

	historyNote := fmt.Sprintf("convener_review:%s", decision)
	if err := recordHistory(tx, folder.FolderID, folder.Status, newStatus, user.UserID, ptr(notes), ptr(historyNote), now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	oldStatus := folder.Status
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize decision"})
		return
	}

	publishAndRespond(c, folder, message, nil, services.FolderEvent{
		Type:      services.EventStatusChanged,
		ActorID:   user.UserID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Action:    action,
		Notes:     notes,
	})
}

// HodFinalDecision closes a review cycle with the head of department's
// approve/reject verdict. The first approval opens the final-submission
// window; the second closes the folder for the term.
func HodFinalDecision(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Decision      string `json:"decision" binding:"required"`
		Notes         string `json:"notes"`
		FinalFeedback string `json:"final_feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var action services.FolderAction
	switch strings.ToLower(strings.TrimSpace(req.Decision)) {
	case "approve", "approved":
		action = services.ActionHodApprove
	case "reject", "rejected":
		action = services.ActionHodReject
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be either 'approve' or 'reject'"})
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

	if !canActAsHod(user, folder) {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the head of department can make the final decision"})
		return
	}

	newStatus, err := services.ResolveTransition(action, folder.Status)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	decision := "approved"
	message := "Folder approved"
	if action == services.ActionHodReject {
		decision = "rejected"
		message = "Folder returned to the faculty member"
	}

	now := time.Now()
	notes := strings.TrimSpace(req.Notes)
	finalFeedback := strings.TrimSpace(req.FinalFeedback)

	updates := map[string]interface{}{
		"status":             newStatus,
		"hod_reviewed_at":    now,
		"hod_reviewed_by":    user.UserID,
		"hod_decision":       decision,
		"hod_notes":          ptr(notes),
		"hod_final_feedback": ptr(finalFeedback),
		"update_at":          now,
	}

	if action == services.ActionHodApprove {
		var priorApprovals int64
		if err := tx.Model(&models.FolderReview{}).
			Where("folder_id = ? AND stage = ? AND decision = ?",
				folder.FolderID, models.ReviewStageHod, "approved").
			Count(&priorApprovals).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review history"})
			return
		}

		if priorApprovals == 0 {
			// First activity done: unlock the folder for the final cycle.
			updates["first_activity_completed"] = true
			updates["can_edit_for_final_submission"] = true
			message = "Folder approved; final-submission window opened"
		} else {
			updates["can_edit_for_final_submission"] = false
			updates["is_complete"] = true
			message = "Folder approved and closed for the term"
		}
	}

	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	if err := recordReview(tx, folder.FolderID, user.UserID, models.ReviewStageHod, decision, ptr(notes), now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review record"})
		return
	}

	historyNote := fmt.Sprintf("hod_final_decision:%s", decision)
	if err := recordHistory(tx, folder.FolderID, folder.Status, newStatus, user.UserID, ptr(notes), ptr(historyNote), now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	oldStatus := folder.Status
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize decision"})
		return
	}

	publishAndRespond(c, folder, message, nil, services.FolderEvent{
		Type:      services.EventStatusChanged,
		ActorID:   user.UserID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Action:    action,
		Notes:     notes,
	})
}

// canActAsConvener checks the actor is the department's convener (or an
// admin stepping in).
func canActAsConvener(tx *gorm.DB, user *models.User, folder *models.Folder) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	rc, err := services.ResolveReviewContext(tx, user, folder)
	if err != nil {
		return false
	}
	return rc.IsConvenerReview
}

// canActAsHod checks the actor heads the folder's department (or is an
// admin stepping in).
func canActAsHod(user *models.User, folder *models.Folder) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	if user.Role != models.RoleHOD {
		return false
	}
	if user.DepartmentID == nil || folder.DepartmentID == nil {
		return false
	}
	return *user.DepartmentID == *folder.DepartmentID
}

// saveFolderUpload stores a report or component file under the folder's
// upload directory and returns the path kept in the database.
func saveFolderUpload(c *gin.Context, folderID int, file *multipart.FileHeader) (string, error) {
	if file.Size > maxUploadSize {
		return "", errors.New("File too large. Maximum size is 20MB")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		return "", fmt.Errorf("File type %s is not allowed", ext)
	}

	dir, err := utils.CreateFolderDirIfNotExists(folderID)
	if err != nil {
		return "", errors.New("Failed to prepare upload directory")
	}

	stored := utils.GenerateUniqueFilename(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, stored)); err != nil {
		return "", errors.New("Failed to save file")
	}

	return filepath.ToSlash(filepath.Join("folders", fmt.Sprintf("%d", folderID), stored)), nil
}
