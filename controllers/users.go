package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"course-folder-api/config"
	"course-folder-api/models"
	"course-folder-api/utils"
)

type createUserRequest struct {
	CNIC         string  `json:"cnic" binding:"required"`
	FullName     string  `json:"full_name" binding:"required"`
	Email        string  `json:"email" binding:"required"`
	Password     string  `json:"password" binding:"required"`
	Role         string  `json:"role" binding:"required"`
	Designation  *string `json:"designation"`
	DepartmentID *int    `json:"department_id"`
	ProgramID    *int    `json:"program_id"`
}

type updateUserRequest struct {
	FullName     *string `json:"full_name"`
	Email        *string `json:"email"`
	Role         *string `json:"role"`
	Designation  *string `json:"designation"`
	DepartmentID *int    `json:"department_id"`
	ProgramID    *int    `json:"program_id"`
	IsActive     *bool   `json:"is_active"`
}

// ListUsers returns accounts with optional role, department and search filters.
func ListUsers(c *gin.Context) {
	query := config.DB.Model(&models.User{}).
		Preload("Department").
		Preload("Program").
		Where("delete_at IS NULL")

	if rawRole := strings.TrimSpace(c.Query("role")); rawRole != "" {
		role := models.Role(strings.ToUpper(rawRole))
		if !models.IsValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		query = query.Where("role = ?", role)
	}
	if deptID, err := strconv.Atoi(c.Query("department_id")); err == nil && deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}
	if active := c.Query("active"); active == "1" || strings.EqualFold(active, "true") {
		query = query.Where("is_active = ?", true)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR cnic LIKE ?", like, like, like)
	}

	var users []models.User
	if err := query.Order("full_name ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

// GetUser returns one account.
func GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Preload("Department").Preload("Program").
		Where("user_id = ? AND delete_at IS NULL", id).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// CreateUser registers an account. CNIC and email must be unique.
func CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	cnic := utils.SanitizeInput(req.CNIC)
	if !utils.ValidateCNIC(cnic) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CNIC must be 13 digits, dashes optional"})
		return
	}

	email := strings.ToLower(utils.SanitizeInput(req.Email))
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	if !utils.ValidatePassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
		return
	}

	role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !models.IsValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var clash int64
	if err := config.DB.Model(&models.User{}).
		Where("(cnic = ? OR email = ?) AND delete_at IS NULL", cnic, email).
		Count(&clash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
		return
	}
	if clash > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this CNIC or email already exists"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		CNIC:         cnic,
		FullName:     utils.SanitizeInput(req.FullName),
		Email:        email,
		Password:     hashed,
		Role:         role,
		Designation:  req.Designation,
		DepartmentID: req.DepartmentID,
		ProgramID:    req.ProgramID,
		IsActive:     true,
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created",
		"user":    user,
	})
}

// UpdateUser edits account fields. Deactivation also lands here via is_active.
func UpdateUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if req.FullName != nil {
		if name := utils.SanitizeInput(*req.FullName); name != "" {
			updates["full_name"] = name
		}
	}
	if req.Email != nil {
		email := strings.ToLower(utils.SanitizeInput(*req.Email))
		if !utils.ValidateEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		var clash int64
		if err := config.DB.Model(&models.User{}).
			Where("email = ? AND user_id != ? AND delete_at IS NULL", email, id).
			Count(&clash).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
			return
		}
		if clash > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
			return
		}
		updates["email"] = email
	}
	if req.Role != nil {
		role := models.Role(strings.ToUpper(strings.TrimSpace(*req.Role)))
		if !models.IsValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		updates["role"] = role
	}
	if req.Designation != nil {
		updates["designation"] = ptr(strings.TrimSpace(*req.Designation))
	}
	if req.DepartmentID != nil {
		updates["department_id"] = req.DepartmentID
	}
	if req.ProgramID != nil {
		updates["program_id"] = req.ProgramID
	}
	if req.IsActive != nil {
		if !*req.IsActive && user.UserID == actor.UserID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot deactivate your own account"})
			return
		}
		updates["is_active"] = *req.IsActive
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated",
		"user":    user,
	})
}

// ResetUserPassword lets an administrator set a new password for an account.
func ResetUserPassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if !utils.ValidatePassword(req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := config.DB.Model(&user).
		Updates(map[string]interface{}{"password": hashed, "update_at": time.Now()}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset"})
}

// DeleteUser soft deletes an account.
func DeleteUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if id == actor.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&user).
		Updates(map[string]interface{}{"delete_at": now, "is_active": false, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}
