package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

type HandlerManager struct {
	base               BaseHandler
	authService        services.AuthService
	authHandler        *AuthHandler
	courseHandler      *CourseHandler
	enrollmentHandler  *EnrollmentHandler
	reviewHandler      *ReviewHandler
	facultyHandler     *FacultyHandler
	studentHandler     *StudentHandler
	adminHandler       *AdminHandler
	certificateHandler *CertificateHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		base:              NewBaseHandler(logger),
		authService:       serviceManager.Auth(),
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		reviewHandler:     NewReviewHandler(serviceManager.Review(), logger),
		facultyHandler: NewFacultyHandler(
			serviceManager.Faculty(),
			serviceManager.Quiz(),
			serviceManager.Attempt(),
			serviceManager.Export(),
			logger,
		),
		studentHandler:     NewStudentHandler(serviceManager.Quiz(), serviceManager.Attempt(), logger),
		adminHandler:       NewAdminHandler(serviceManager, logger),
		certificateHandler: NewCertificateHandler(serviceManager.Certificate(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	authenticated := RequireAuth(hm.authService, hm.base)
	admin := RequireRole(models.RoleAdmin)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/me", authenticated, hm.authHandler.Me)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", hm.courseHandler.List)
			courses.GET("/:id", hm.courseHandler.Get)
			courses.POST("", authenticated, admin, hm.courseHandler.Create)
			courses.DELETE("/:id", authenticated, admin, hm.courseHandler.Delete)
		}

		enrollments := api.Group("/enrollments", authenticated)
		{
			enrollments.POST("", RequireRole(models.RoleStudent), hm.enrollmentHandler.Enroll)
			enrollments.GET("", hm.enrollmentHandler.Mine)
			enrollments.GET("/all", admin, hm.enrollmentHandler.All)
			enrollments.DELETE("/all", admin, hm.enrollmentHandler.DeleteAll)
			enrollments.DELETE("/:id", admin, hm.enrollmentHandler.Delete)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("", hm.reviewHandler.AllAverages)
			reviews.GET("/:courseId", hm.reviewHandler.ListForCourse)
			reviews.POST("/:courseId", authenticated, hm.reviewHandler.Create)
			reviews.DELETE("/:reviewId", authenticated, admin, hm.reviewHandler.Delete)
		}

		faculty := api.Group("/faculty", authenticated, RequireRole(models.RoleFaculty))
		{
			faculty.GET("/courses", hm.facultyHandler.AssignedCourses)
			faculty.GET("/quizzes", hm.facultyHandler.ListQuizzes)
			faculty.POST("/quizzes", hm.facultyHandler.CreateQuiz)
			faculty.PUT("/quizzes/:id", hm.facultyHandler.UpdateQuiz)
			faculty.DELETE("/quizzes/:id", hm.facultyHandler.DeleteQuiz)
			faculty.GET("/quizzes/:id/export", hm.facultyHandler.ExportResults)
			faculty.GET("/results/:resultId", hm.facultyHandler.GetResult)
		}

		student := api.Group("/student", authenticated, RequireRole(models.RoleStudent))
		{
			// course id for the listing, quiz id below it
			student.GET("/quizzes/:id", hm.studentHandler.ListQuizzes)
			student.POST("/quizzes/:id/submit", hm.studentHandler.Submit)
			student.GET("/quizzes/:id/attempts", hm.studentHandler.History)
			student.GET("/quiz/:quizId", hm.studentHandler.GetQuiz)
			student.GET("/quiz/:quizId/status", hm.studentHandler.Status)
		}

		adminGroup := api.Group("/admin", authenticated, admin)
		{
			adminGroup.POST("/faculty", hm.adminHandler.RegisterFaculty)
			adminGroup.POST("/faculty-courses", hm.adminHandler.AssignCourse)
			adminGroup.GET("/courses/:courseId/quizzes", hm.adminHandler.QuizzesByCourse)
			adminGroup.POST("/courses/:courseId/notify", hm.adminHandler.NotifyCourse)
			adminGroup.GET("/quizzes/:quizId/results", hm.adminHandler.QuizResults)
		}

		api.POST("/certificate/send", authenticated, admin, hm.certificateHandler.Send)
	}
}
