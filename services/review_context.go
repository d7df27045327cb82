package services

import (
	"errors"

	"course-folder-api/models"

	"gorm.io/gorm"
)

// ReviewContext tells a handler whose lens the folder is being viewed
// through. At most one review flag is true; all false means the owning
// faculty member. BasePath is the role prefix the frontend uses to build
// links back into the right area.
type ReviewContext struct {
	IsCoordinatorReview bool   `json:"is_coordinator_review"`
	IsConvenerReview    bool   `json:"is_convener_review"`
	IsAuditMemberReview bool   `json:"is_audit_member_review"`
	IsHodReview         bool   `json:"is_hod_review"`
	BasePath            string `json:"base_path"`
}

// IsReview reports whether any reviewer flag is set.
func (rc ReviewContext) IsReview() bool {
	return rc.IsCoordinatorReview || rc.IsConvenerReview || rc.IsAuditMemberReview || rc.IsHodReview
}

// ResolveReviewContext derives the viewer's relationship to the folder.
// Checks run in a fixed order and the first match wins:
// owner, coordinator assignment, convener of the department, audit
// assignment, HOD of the department. Anything else falls through to the
// owner-style default with no flags set.
func ResolveReviewContext(db *gorm.DB, user *models.User, folder *models.Folder) (ReviewContext, error) {
	if user == nil || folder == nil {
		return ReviewContext{}, errors.New("user and folder are required")
	}

	if folder.IsOwnedBy(user.UserID) {
		return ReviewContext{BasePath: "/faculty"}, nil
	}

	assigned, err := IsAssignedCoordinator(db, user.UserID, folder.CourseID, folder.TermID)
	if err != nil {
		return ReviewContext{}, err
	}
	if assigned {
		return ReviewContext{IsCoordinatorReview: true, BasePath: "/coordinator"}, nil
	}

	if user.Role == models.RoleConvener && sameDepartment(user, folder) {
		return ReviewContext{IsConvenerReview: true, BasePath: "/convener"}, nil
	}

	var auditCount int64
	if err := db.Model(&models.AuditAssignment{}).
		Where("folder_id = ? AND auditor_id = ?", folder.FolderID, user.UserID).
		Count(&auditCount).Error; err != nil {
		return ReviewContext{}, err
	}
	if auditCount > 0 {
		return ReviewContext{IsAuditMemberReview: true, BasePath: "/audit-member"}, nil
	}

	if user.Role == models.RoleHOD && sameDepartment(user, folder) {
		return ReviewContext{IsHodReview: true, BasePath: "/hod"}, nil
	}

	// No recognized relationship: fall back to the read-only owner default.
	return ReviewContext{BasePath: "/faculty"}, nil
}

// IsAssignedCoordinator reports whether the user holds an active coordinator
// assignment for the course. A NULL term on the assignment covers all terms.
func IsAssignedCoordinator(db *gorm.DB, userID, courseID, termID int) (bool, error) {
	var count int64
	err := db.Model(&models.CourseCoordinatorAssignment{}).
		Where("coordinator_id = ? AND course_id = ? AND is_active = ? AND (term_id IS NULL OR term_id = ?)",
			userID, courseID, true, termID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasActiveCoordinator reports whether any active coordinator covers the
// course for the given term. Folders cannot be submitted without one.
func HasActiveCoordinator(db *gorm.DB, courseID, termID int) (bool, error) {
	var count int64
	err := db.Model(&models.CourseCoordinatorAssignment{}).
		Where("course_id = ? AND is_active = ? AND (term_id IS NULL OR term_id = ?)",
			courseID, true, termID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func sameDepartment(user *models.User, folder *models.Folder) bool {
	if user.DepartmentID == nil || folder.DepartmentID == nil {
		return false
	}
	return *user.DepartmentID == *folder.DepartmentID
}
