package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"course-folder-api/config"
	"course-folder-api/models"
)

type courseRequest struct {
	Code          string  `json:"code" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	CreditHours   int     `json:"credit_hours" binding:"required"`
	CourseType    string  `json:"course_type" binding:"required"`
	DepartmentID  *int    `json:"department_id"`
	ProgramID     *int    `json:"program_id"`
	PreRequisites *string `json:"pre_requisites"`
}

type allocationRequest struct {
	CourseID  int    `json:"course_id" binding:"required"`
	FacultyID int    `json:"faculty_id" binding:"required"`
	Section   string `json:"section" binding:"required"`
	TermID    int    `json:"term_id" binding:"required"`
}

type coordinatorAssignRequest struct {
	CoordinatorID int  `json:"coordinator_id" binding:"required"`
	CourseID      int  `json:"course_id" binding:"required"`
	TermID        *int `json:"term_id"`
}

var validCourseTypes = map[models.CourseType]bool{
	models.CourseTypeTheory: true,
	models.CourseTypeLab:    true,
	models.CourseTypeHybrid: true,
}

// canManageCourse limits catalog writes to admins and the owning department's head.
func canManageCourse(user *models.User, departmentID *int) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	if user.Role != models.RoleHOD {
		return false
	}
	if user.DepartmentID == nil || departmentID == nil {
		return false
	}
	return *user.DepartmentID == *departmentID
}

// ListCourses returns the course catalog with optional filters.
func ListCourses(c *gin.Context) {
	query := config.DB.Model(&models.Course{}).
		Preload("Department").
		Preload("Program").
		Where("delete_at IS NULL")

	if deptID, err := strconv.Atoi(c.Query("department_id")); err == nil && deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}
	if programID, err := strconv.Atoi(c.Query("program_id")); err == nil && programID > 0 {
		query = query.Where("program_id = ?", programID)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("code LIKE ? OR title LIKE ?", like, like)
	}

	var courses []models.Course
	if err := query.Order("code ASC").Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"courses": courses,
		"total":   len(courses),
	})
}

// CreateCourse adds a course to the catalog.
func CreateCourse(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	courseType := models.CourseType(strings.ToUpper(strings.TrimSpace(req.CourseType)))
	if !validCourseTypes[courseType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course type must be THEORY, LAB or HYBRID"})
		return
	}
	if req.CreditHours <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Credit hours must be positive"})
		return
	}

	departmentID := req.DepartmentID
	if user.Role == models.RoleHOD {
		departmentID = user.DepartmentID
	}
	if !canManageCourse(user, departmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage courses for this department"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	var clash int64
	if err := config.DB.Model(&models.Course{}).
		Where("code = ? AND delete_at IS NULL", code).
		Count(&clash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing courses"})
		return
	}
	if clash > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A course with this code already exists"})
		return
	}

	now := time.Now()
	course := models.Course{
		Code:          code,
		Title:         strings.TrimSpace(req.Title),
		CreditHours:   req.CreditHours,
		CourseType:    courseType,
		DepartmentID:  departmentID,
		ProgramID:     req.ProgramID,
		PreRequisites: req.PreRequisites,
		CreateAt:      &now,
		UpdateAt:      &now,
	}
	if err := config.DB.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Course created",
		"course":  course,
	})
}

// UpdateCourse edits catalog fields on a course.
func UpdateCourse(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var course models.Course
	if err := config.DB.Where("course_id = ? AND delete_at IS NULL", id).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	if !canManageCourse(user, course.DepartmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage courses for this department"})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if code := strings.ToUpper(strings.TrimSpace(req.Code)); code != "" && code != course.Code {
		var clash int64
		if err := config.DB.Model(&models.Course{}).
			Where("code = ? AND course_id != ? AND delete_at IS NULL", code, id).
			Count(&clash).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing courses"})
			return
		}
		if clash > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "A course with this code already exists"})
			return
		}
		updates["code"] = code
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		updates["title"] = title
	}
	if req.CreditHours > 0 {
		updates["credit_hours"] = req.CreditHours
	}
	if rawType := strings.TrimSpace(req.CourseType); rawType != "" {
		courseType := models.CourseType(strings.ToUpper(rawType))
		if !validCourseTypes[courseType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Course type must be THEORY, LAB or HYBRID"})
			return
		}
		updates["course_type"] = courseType
	}
	if req.PreRequisites != nil {
		updates["pre_requisites"] = ptr(strings.TrimSpace(*req.PreRequisites))
	}

	if err := config.DB.Model(&course).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Course updated",
		"course":  course,
	})
}

// ListAllocations returns teaching allocations. Faculty members see their own.
func ListAllocations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	query := config.DB.Model(&models.CourseAllocation{}).
		Preload("Course").
		Preload("Faculty").
		Preload("Term").
		Where("course_allocations.delete_at IS NULL")

	switch user.Role {
	case models.RoleAdmin:
	case models.RoleHOD, models.RoleConvener:
		if user.DepartmentID != nil {
			query = query.Joins("JOIN courses ON courses.course_id = course_allocations.course_id").
				Where("courses.department_id = ?", *user.DepartmentID)
		}
	default:
		query = query.Where("course_allocations.faculty_id = ?", user.UserID)
	}

	if termID, err := strconv.Atoi(c.Query("term_id")); err == nil && termID > 0 {
		query = query.Where("course_allocations.term_id = ?", termID)
	}
	if courseID, err := strconv.Atoi(c.Query("course_id")); err == nil && courseID > 0 {
		query = query.Where("course_allocations.course_id = ?", courseID)
	}
	if facultyID, err := strconv.Atoi(c.Query("faculty_id")); err == nil && facultyID > 0 && user.Role == models.RoleAdmin {
		query = query.Where("course_allocations.faculty_id = ?", facultyID)
	}

	var allocations []models.CourseAllocation
	if err := query.Order("course_allocations.allocation_id DESC").Find(&allocations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch allocations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"allocations": allocations,
		"total":       len(allocations),
	})
}

// CreateAllocation assigns a faculty member to teach a course section in a term.
func CreateAllocation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req allocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	section := strings.TrimSpace(req.Section)
	if section == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Section is required"})
		return
	}

	var course models.Course
	if err := config.DB.Where("course_id = ? AND delete_at IS NULL", req.CourseID).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	if !canManageCourse(user, course.DepartmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage courses for this department"})
		return
	}

	var faculty models.User
	if err := config.DB.Where("user_id = ? AND is_active = ? AND delete_at IS NULL", req.FacultyID, true).
		First(&faculty).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Faculty member not found or inactive"})
		return
	}

	var term models.Term
	if err := config.DB.Where("term_id = ? AND delete_at IS NULL", req.TermID).First(&term).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}

	var existing int64
	if err := config.DB.Model(&models.CourseAllocation{}).
		Where("course_id = ? AND faculty_id = ? AND section = ? AND term_id = ? AND delete_at IS NULL",
			req.CourseID, req.FacultyID, section, req.TermID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing allocations"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "This allocation already exists"})
		return
	}

	now := time.Now()
	allocation := models.CourseAllocation{
		CourseID:  req.CourseID,
		FacultyID: req.FacultyID,
		Section:   section,
		TermID:    req.TermID,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := config.DB.Create(&allocation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create allocation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Allocation created",
		"allocation": allocation,
	})
}

// DeleteAllocation removes a teaching allocation that has no folder yet.
func DeleteAllocation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var allocation models.CourseAllocation
	if err := config.DB.Preload("Course").
		Where("allocation_id = ? AND delete_at IS NULL", id).
		First(&allocation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Allocation not found"})
		return
	}

	var deptID *int
	if allocation.Course != nil {
		deptID = allocation.Course.DepartmentID
	}
	if !canManageCourse(user, deptID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage courses for this department"})
		return
	}

	var folders int64
	if err := config.DB.Model(&models.Folder{}).
		Where("course_allocation_id = ? AND delete_at IS NULL", id).
		Count(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check folders"})
		return
	}
	if folders > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A folder exists for this allocation"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&allocation).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete allocation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Allocation deleted"})
}

// ListCoordinatorAssignments returns coordinator assignments with optional filters.
func ListCoordinatorAssignments(c *gin.Context) {
	query := config.DB.Model(&models.CourseCoordinatorAssignment{}).
		Preload("Coordinator").
		Preload("Course").
		Preload("Term").
		Where("delete_at IS NULL")

	if courseID, err := strconv.Atoi(c.Query("course_id")); err == nil && courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	if termID, err := strconv.Atoi(c.Query("term_id")); err == nil && termID > 0 {
		query = query.Where("term_id IS NULL OR term_id = ?", termID)
	}
	if coordinatorID, err := strconv.Atoi(c.Query("coordinator_id")); err == nil && coordinatorID > 0 {
		query = query.Where("coordinator_id = ?", coordinatorID)
	}
	if active := c.Query("active"); active == "1" || strings.EqualFold(active, "true") {
		query = query.Where("is_active = ?", true)
	}

	var assignments []models.CourseCoordinatorAssignment
	if err := query.Order("assignment_id DESC").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coordinator assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// AssignCoordinator makes a user the reviewing coordinator for a course.
// An assignment with the same course and term scope is replaced.
func AssignCoordinator(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req coordinatorAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	var course models.Course
	if err := config.DB.Where("course_id = ? AND delete_at IS NULL", req.CourseID).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	if !canManageCourse(user, course.DepartmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage courses for this department"})
		return
	}

	var coordinator models.User
	if err := config.DB.Where("user_id = ? AND is_active = ? AND delete_at IS NULL", req.CoordinatorID, true).
		First(&coordinator).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coordinator not found or inactive"})
		return
	}
	if coordinator.Role != models.RoleCoordinator {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The user does not have the coordinator role"})
		return
	}

	if req.TermID != nil {
		var term models.Term
		if err := config.DB.Where("term_id = ? AND delete_at IS NULL", *req.TermID).First(&term).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
			return
		}
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	now := time.Now()

	// Replace any active assignment with the same course and term scope.
	scope := tx.Model(&models.CourseCoordinatorAssignment{}).
		Where("course_id = ? AND is_active = ? AND delete_at IS NULL", req.CourseID, true)
	if req.TermID == nil {
		scope = scope.Where("term_id IS NULL")
	} else {
		scope = scope.Where("term_id = ?", *req.TermID)
	}
	if err := scope.Updates(map[string]interface{}{"is_active": false, "update_at": now}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace existing assignment"})
		return
	}

	assignment := models.CourseCoordinatorAssignment{
		CoordinatorID: req.CoordinatorID,
		CourseID:      req.CourseID,
		TermID:        req.TermID,
		IsActive:      true,
		AssignedByID:  intPtr(user.UserID),
		CreateAt:      &now,
		UpdateAt:      &now,
	}
	if err := tx.Create(&assignment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assignment"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit assignment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Coordinator assigned",
		"assignment": assignment,
	})
}

// UnassignCoordinator deactivates a coordinator assignment.
func UnassignCoordinator(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var assignment models.CourseCoordinatorAssignment
	if err := config.DB.Preload("Course").
		Where("assignment_id = ? AND delete_at IS NULL", id).
		First(&assignment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	var deptID *int
	if assignment.Course != nil {
		deptID = assignment.Course.DepartmentID
	}
	if !canManageCourse(user, deptID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot manage courses for this department"})
		return
	}

	if err := config.DB.Model(&assignment).
		Updates(map[string]interface{}{"is_active": false, "update_at": time.Now()}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign coordinator"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coordinator unassigned"})
}
