package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/controllers"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	catalogController *controllers.CatalogController,
	enrollmentController *controllers.EnrollmentController,
	documentController *controllers.DocumentController,
	contractController *controllers.ContractController,
	gradeController *controllers.GradeController,
	requestController *controllers.RequestController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// Catalog reads are public.
	v1.GET("/courses", catalogController.ListCourses)
	v1.GET("/courses/:id", catalogController.GetCourse)
	v1.GET("/courses/:id/disciplines", catalogController.ListCourseDisciplines)
	v1.GET("/disciplines", catalogController.ListDisciplines)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Accounts. Role enforcement happens in the services.
		users := authenticated.Group("/users")
		{
			users.POST("", userController.Register)
			users.GET("", userController.ListByRole)
			users.GET("/me", userController.GetProfile)
			users.PUT("/me", userController.UpdateProfile)
			users.PUT("/me/password", userController.ChangePassword)
			users.GET("/:id", userController.GetByID)
			users.DELETE("/:id", userController.Deactivate)
		}

		// Catalog maintenance.
		authenticated.POST("/courses", catalogController.CreateCourse)
		authenticated.PUT("/courses/:id", catalogController.UpdateCourse)
		authenticated.DELETE("/courses/:id", catalogController.DeleteCourse)
		authenticated.POST("/courses/:id/disciplines", catalogController.LinkDiscipline)
		authenticated.DELETE("/courses/:id/disciplines/:disciplineId", catalogController.UnlinkDiscipline)
		authenticated.POST("/disciplines", catalogController.CreateDiscipline)
		authenticated.PUT("/disciplines/:id", catalogController.UpdateDiscipline)
		authenticated.DELETE("/disciplines/:id", catalogController.DeleteDiscipline)

		classes := authenticated.Group("/classes")
		{
			classes.POST("", catalogController.CreateClass)
			classes.GET("", catalogController.ListClasses)
			classes.GET("/:id", catalogController.GetClass)
			classes.POST("/:id/teachers", catalogController.AssignTeacher)
			classes.DELETE("/:id/teachers/:teacherId", catalogController.UnassignTeacher)
			classes.POST("/:id/students", catalogController.AddStudent)
			classes.DELETE("/:id/students/:studentId", catalogController.RemoveStudent)
			classes.GET("/:id/roster", catalogController.GetRoster)
			classes.GET("/:id/evaluations", gradeController.ListEvaluationsByClass)
		}
		authenticated.GET("/teachers/:teacherId/classes", catalogController.ListClassesByTeacher)

		documentTypes := authenticated.Group("/document-types")
		{
			documentTypes.POST("", catalogController.CreateDocumentType)
			documentTypes.GET("", catalogController.ListDocumentTypes)
			documentTypes.PUT("/:id", catalogController.UpdateDocumentType)
			documentTypes.DELETE("/:id", catalogController.DeleteDocumentType)
		}

		contractTemplates := authenticated.Group("/contract-templates")
		{
			contractTemplates.POST("", catalogController.CreateContractTemplate)
			contractTemplates.GET("", catalogController.ListContractTemplates)
			contractTemplates.GET("/:id", catalogController.GetContractTemplate)
			contractTemplates.PUT("/:id", catalogController.UpdateContractTemplate)
		}

		// Enrollment lifecycle.
		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.POST("", enrollmentController.Create)
			enrollments.GET("/:id", enrollmentController.GetByID)
			enrollments.PUT("/:id/activate", enrollmentController.Activate)
			enrollments.PUT("/:id/cancel", enrollmentController.Cancel)
		}
		authenticated.GET("/students/:studentId/enrollments", enrollmentController.ListByStudent)

		// Document workflow.
		documents := authenticated.Group("/documents")
		{
			documents.POST("", documentController.Submit)
			documents.GET("/pending", documentController.ListPending)
			documents.PUT("/:id/review", documentController.Review)
		}
		authenticated.GET("/users/:id/documents", documentController.ListByOwner)
		authenticated.GET("/users/:id/documents/outstanding", documentController.ListRequiredOutstanding)

		// Contract lifecycle.
		contracts := authenticated.Group("/contracts")
		{
			contracts.POST("", contractController.Issue)
			contracts.GET("/:id", contractController.GetByID)
			contracts.GET("/:id/artifact", contractController.Download)
			contracts.PUT("/:id/accept", contractController.Accept)
			contracts.PUT("/:id/regenerate", contractController.Regenerate)
		}
		authenticated.GET("/users/:id/contracts", contractController.ListByOwner)

		// Evaluations and grades.
		evaluations := authenticated.Group("/evaluations")
		{
			evaluations.POST("", gradeController.CreateEvaluation)
			evaluations.DELETE("/:id", gradeController.DeleteEvaluation)
			evaluations.POST("/:id/grades", gradeController.RecordGrade)
			evaluations.GET("/:id/grades", gradeController.ListGradesByEvaluation)
		}
		authenticated.PUT("/grades/:id", gradeController.AmendGrade)
		authenticated.GET("/students/:studentId/grades", gradeController.ListGradesByStudent)

		// Administrative requests.
		requests := authenticated.Group("/requests")
		{
			requests.POST("", requestController.Open)
			requests.GET("/pending", requestController.ListPending)
			requests.GET("/:id", requestController.GetByID)
			requests.PUT("/:id/review", requestController.Review)
		}
		authenticated.GET("/students/:studentId/requests", requestController.ListByStudent)

		requestTypes := authenticated.Group("/request-types")
		{
			requestTypes.POST("", requestController.CreateType)
			requestTypes.GET("", requestController.ListTypes)
		}
	}
}
