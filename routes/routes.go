package routes

import (
	"course-folder-api/controllers"
	"course-folder-api/middleware"
	"course-folder-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Course Folder API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Course folders
			folders := protected.Group("/folders")
			{
				folders.GET("", controllers.ListFolders)
				folders.POST("", controllers.CreateFolder)
				folders.GET("/my", controllers.ListMyFolders)
				folders.GET("/status-counts",
					middleware.RequireRole(models.RoleConvener, models.RoleHOD, models.RoleAdmin), controllers.GetFolderStatusCounts)
				folders.GET("/:id", controllers.GetFolder)
				folders.PUT("/:id", controllers.UpdateFolder)
				folders.DELETE("/:id", controllers.DeleteFolder)
				folders.GET("/:id/basic", controllers.GetFolderBasic)
				folders.GET("/:id/history", controllers.GetFolderHistory)
				folders.GET("/:id/audit-assignments", controllers.ListFolderAuditAssignments)

				// Workflow transitions
				folders.POST("/:id/submit", controllers.SubmitFolder)
				folders.POST("/:id/coordinator-review",
					middleware.RequireRole(models.RoleCoordinator), controllers.CoordinatorReview)
				folders.POST("/:id/assign-audit",
					middleware.RequireRole(models.RoleConvener, models.RoleAdmin), controllers.AssignAudit)
				folders.POST("/:id/unassign-audit",
					middleware.RequireRole(models.RoleConvener, models.RoleAdmin), controllers.UnassignAudit)
				folders.POST("/:id/audit-report",
					middleware.RequireRole(models.RoleAuditMember, models.RoleAuditTeam), controllers.SubmitAuditReport)
				folders.POST("/:id/convener-review",
					middleware.RequireRole(models.RoleConvener, models.RoleAdmin), controllers.ConvenerReview)
				folders.POST("/:id/hod-decision",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.HodFinalDecision)

				// Section feedback
				folders.GET("/:id/feedback", controllers.GetFolderFeedback)
				folders.PUT("/:id/feedback/coordinator",
					middleware.RequireRole(models.RoleCoordinator, models.RoleAdmin), controllers.SaveCoordinatorFeedback)
				folders.PUT("/:id/feedback/audit",
					middleware.RequireRole(models.RoleAuditMember, models.RoleAuditTeam, models.RoleAdmin), controllers.SaveAuditMemberFeedback)

				// Course outline
				folders.GET("/:id/outline", controllers.GetOutline)
				folders.PUT("/:id/outline", controllers.SaveOutlineContent)
				folders.GET("/:id/outline/snapshots", controllers.ListOutlineSnapshots)

				// Assessments
				folders.GET("/:id/assessments", controllers.ListAssessments)
				folders.POST("/:id/assessments", controllers.UpsertAssessment)
				folders.DELETE("/:id/assessments/:assessmentId", controllers.DeleteAssessment)

				// Course log
				folders.GET("/:id/course-log", controllers.ListCourseLog)
				folders.POST("/:id/course-log", controllers.UpsertCourseLogEntry)
				folders.DELETE("/:id/course-log/:entryId", controllers.DeleteCourseLogEntry)

				// Other folder components
				folders.GET("/:id/components", controllers.ListComponents)
				folders.POST("/:id/components", controllers.UploadComponent)
				folders.DELETE("/:id/components/:componentId", controllers.DeleteComponent)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.POST("",
					middleware.RequireRole(models.RoleAdmin), controllers.CreateNotification)
			}

			// Submission deadlines
			deadlines := protected.Group("/deadlines")
			{
				deadlines.GET("", controllers.ListDeadlines)
				deadlines.GET("/upcoming", controllers.GetUpcomingDeadlines)
				deadlines.GET("/current", controllers.GetCurrentDeadlines)
				deadlines.POST("",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.CreateDeadline)
				deadlines.PUT("/:id",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.UpdateDeadline)
				deadlines.DELETE("/:id",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.DeleteDeadline)
			}

			// Academic terms
			terms := protected.Group("/terms")
			{
				terms.GET("", controllers.ListTerms)
				terms.GET("/active", controllers.GetActiveTerm)
				terms.POST("",
					middleware.RequireRole(models.RoleAdmin), controllers.CreateTerm)
				terms.PUT("/:id",
					middleware.RequireRole(models.RoleAdmin), controllers.UpdateTerm)
				terms.POST("/:id/activate",
					middleware.RequireRole(models.RoleAdmin), controllers.ActivateTerm)
				terms.DELETE("/:id",
					middleware.RequireRole(models.RoleAdmin), controllers.DeleteTerm)
			}

			// Course catalog
			courses := protected.Group("/courses")
			{
				courses.GET("", controllers.ListCourses)
				courses.POST("",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.CreateCourse)
				courses.PUT("/:id",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.UpdateCourse)
			}

			// Teaching allocations
			allocations := protected.Group("/allocations")
			{
				allocations.GET("", controllers.ListAllocations)
				allocations.POST("",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.CreateAllocation)
				allocations.DELETE("/:id",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.DeleteAllocation)
			}

			// Coordinator assignments
			coordinators := protected.Group("/coordinator-assignments")
			{
				coordinators.GET("", controllers.ListCoordinatorAssignments)
				coordinators.POST("",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.AssignCoordinator)
				coordinators.DELETE("/:id",
					middleware.RequireRole(models.RoleHOD, models.RoleAdmin), controllers.UnassignCoordinator)
			}

			// User management
			users := protected.Group("/users")
			{
				users.GET("",
					middleware.RequireRole(models.RoleAdmin, models.RoleHOD, models.RoleConvener), controllers.ListUsers)
				users.GET("/:id",
					middleware.RequireRole(models.RoleAdmin, models.RoleHOD, models.RoleConvener), controllers.GetUser)
				users.POST("",
					middleware.RequireRole(models.RoleAdmin), controllers.CreateUser)
				users.PUT("/:id",
					middleware.RequireRole(models.RoleAdmin), controllers.UpdateUser)
				users.PUT("/:id/reset-password",
					middleware.RequireRole(models.RoleAdmin), controllers.ResetUserPassword)
				users.DELETE("/:id",
					middleware.RequireRole(models.RoleAdmin), controllers.DeleteUser)
			}
		}
	}
}
