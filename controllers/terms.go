package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"course-folder-api/config"
	"course-folder-api/models"
	"course-folder-api/services"
)

type termRequest struct {
	SessionTerm string  `json:"session_term" binding:"required"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

func parseTermDate(raw *string) (*time.Time, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*raw))
	if err != nil {
		return nil, false
	}
	return &t, true
}

// ListTerms returns all terms, newest first.
func ListTerms(c *gin.Context) {
	var terms []models.Term
	if err := config.DB.Where("delete_at IS NULL").
		Order("start_date DESC").
		Find(&terms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch terms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"terms":   terms,
		"total":   len(terms),
	})
}

// GetActiveTerm returns the currently active term.
func GetActiveTerm(c *gin.Context) {
	term, err := services.ActiveTerm(config.DB)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveTerm) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active term"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch active term"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "term": term})
}

// CreateTerm registers a new academic term. New terms start inactive.
func CreateTerm(c *gin.Context) {
	var req termRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	sessionTerm := strings.TrimSpace(req.SessionTerm)
	if sessionTerm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_term is required"})
		return
	}

	startDate, ok := parseTermDate(req.StartDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start date must be YYYY-MM-DD"})
		return
	}
	endDate, ok := parseTermDate(req.EndDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be YYYY-MM-DD"})
		return
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not precede start date"})
		return
	}

	var existing int64
	if err := config.DB.Model(&models.Term{}).
		Where("session_term = ? AND delete_at IS NULL", sessionTerm).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing terms"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A term with this session name already exists"})
		return
	}

	now := time.Now()
	term := models.Term{
		SessionTerm: sessionTerm,
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    false,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := config.DB.Create(&term).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create term"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Term created",
		"term":    term,
	})
}

// UpdateTerm edits a term's name or dates.
func UpdateTerm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req termRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	var term models.Term
	if err := config.DB.Where("term_id = ? AND delete_at IS NULL", id).First(&term).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if sessionTerm := strings.TrimSpace(req.SessionTerm); sessionTerm != "" && sessionTerm != term.SessionTerm {
		var clash int64
		if err := config.DB.Model(&models.Term{}).
			Where("session_term = ? AND term_id != ? AND delete_at IS NULL", sessionTerm, id).
			Count(&clash).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing terms"})
			return
		}
		if clash > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "A term with this session name already exists"})
			return
		}
		updates["session_term"] = sessionTerm
	}
	if req.StartDate != nil {
		startDate, ok := parseTermDate(req.StartDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Start date must be YYYY-MM-DD"})
			return
		}
		updates["start_date"] = startDate
	}
	if req.EndDate != nil {
		endDate, ok := parseTermDate(req.EndDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be YYYY-MM-DD"})
			return
		}
		updates["end_date"] = endDate
	}

	if err := config.DB.Model(&term).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update term"})
		return
	}

	services.InvalidateActiveTermCache()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Term updated",
		"term":    term,
	})
}

// ActivateTerm marks one term active and deactivates the rest.
func ActivateTerm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var term models.Term
	if err := tx.Where("term_id = ? AND delete_at IS NULL", id).First(&term).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}

	now := time.Now()
	if err := tx.Model(&models.Term{}).
		Where("is_active = ? AND term_id != ?", true, id).
		Updates(map[string]interface{}{"is_active": false, "update_at": now}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate terms"})
		return
	}
	if err := tx.Model(&term).
		Updates(map[string]interface{}{"is_active": true, "update_at": now}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate term"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit activation"})
		return
	}

	services.InvalidateActiveTermCache()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Term activated",
		"term":    term,
	})
}

// DeleteTerm soft deletes a term. The active term cannot be deleted.
func DeleteTerm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var term models.Term
	if err := config.DB.Where("term_id = ? AND delete_at IS NULL", id).First(&term).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}
	if term.IsActive {
		c.JSON(http.StatusConflict, gin.H{"error": "The active term cannot be deleted"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&term).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete term"})
		return
	}

	services.InvalidateActiveTermCache()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Term deleted"})
}
