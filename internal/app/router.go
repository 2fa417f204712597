package app

import (
	"classroom_backend/internal/config"
	"classroom_backend/internal/middleware"
	"classroom_backend/internal/model"
	"classroom_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

// registerStudentRoutes 学生/通用 授权接口
func (a *App) registerStudentRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/profile", c.auth.GetProfile)
	api.PUT("/profile", c.auth.UpdateProfile)

	api.GET("/courses", c.course.ListCourses)
	api.GET("/courses/:id", c.course.GetCourse)
	api.GET("/courses/:id/lessons", c.content.ListLessons)
	api.GET("/lessons/:id", c.content.GetLesson)
	api.GET("/lessons/:id/assignments", c.content.ListAssignments)
	api.GET("/lessons/:id/quizzes", c.quiz.ListQuizzes)
	api.GET("/assignments/:id", c.content.GetAssignment)
	api.GET("/quizzes/:id", c.quiz.GetQuiz)
	api.GET("/resources", c.resource.ListResources)
	api.GET("/resources/:id", c.resource.GetResource)

	student := api.Group("")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/courses/join", c.course.JoinCourse)
		student.POST("/courses/:id/leave", c.course.LeaveCourse)
		student.POST("/assignments/:id/submissions", c.content.SubmitAssignment)
		student.POST("/quizzes/:id/attempts", c.quiz.SubmitAttempt)
		student.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)
		student.GET("/progress", c.progress.GetProgress)
	}
}

// registerTeacherRoutes 教师相关接口，管理员同样可用
func (a *App) registerTeacherRoutes(api *gin.RouterGroup, c *controllers) {
	teacher := api.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.PUT("/courses/:id", c.course.UpdateCourse)
		teacher.DELETE("/courses/:id", c.course.DeleteCourse)
		teacher.GET("/courses/:id/members", c.course.ListMembers)
		teacher.DELETE("/courses/:id/members/:studentId", c.course.RemoveMember)

		teacher.POST("/courses/:id/lessons", c.content.CreateLesson)
		teacher.PUT("/lessons/:id", c.content.UpdateLesson)
		teacher.DELETE("/lessons/:id", c.content.DeleteLesson)

		teacher.POST("/lessons/:id/assignments", c.content.CreateAssignment)
		teacher.PUT("/assignments/:id", c.content.UpdateAssignment)
		teacher.DELETE("/assignments/:id", c.content.DeleteAssignment)
		teacher.GET("/assignments/:id/submissions", c.content.ListSubmissions)
		teacher.GET("/assignments/:id/export", c.content.ExportSubmissions)
		teacher.PUT("/submissions/:id/grade", c.content.GradeSubmission)

		teacher.POST("/lessons/:id/quizzes", c.quiz.CreateQuiz)

		teacher.POST("/resources", c.resource.CreateResource)
		teacher.GET("/resources", c.resource.ListMyResources)
		teacher.DELETE("/resources/:id", c.resource.DeleteResource)
	}
}

// registerAdminRoutes 管理员相关接口
func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers) {
	admin := api.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.POST("/users", c.user.CreateUser)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.PUT("/users/:id/role", c.user.SetRole)
		admin.DELETE("/users/:id", c.user.SoftDelete)
		admin.DELETE("/users/:id/purge", c.user.Purge)

		admin.GET("/deleted-users", c.user.ListDeletedUsers)
		admin.POST("/deleted-users/:id/restore", c.user.Restore)
		admin.DELETE("/deleted-users/:id", c.user.DeleteAuditRecord)

		admin.GET("/deleted-courses", c.user.ListDeletedCourses)
		admin.DELETE("/deleted-courses/:id", c.user.DeleteDeletedCourse)
	}
}
