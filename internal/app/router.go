package app

import (
	"classquiz_backend/docs"
	"classquiz_backend/internal/config"
	"classquiz_backend/internal/middleware"
	"classquiz_backend/internal/model"
	"classquiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	student := rg.Group("/student")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/classrooms/join", c.student.JoinClassroom)
		student.GET("/classrooms", c.student.ListMyClassrooms)
		student.GET("/classrooms/:id/quizzes", c.student.ListQuizzes)
		student.GET("/quizzes/:id", c.student.GetQuiz)
		student.POST("/classrooms/:id/quizzes/:quizId/submit", c.student.SubmitQuiz)
		student.GET("/quizzes/:id/attempt", c.student.GetMyAttempt)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 班级
		teacher.POST("/classrooms", c.classroom.CreateClassroom)
		teacher.GET("/classrooms", c.classroom.ListMyClassrooms)
		teacher.GET("/classrooms/:id", c.classroom.GetClassroom)
		teacher.GET("/classrooms/:id/quizzes", c.quiz.ListQuizzes)

		// 试卷与题目
		teacher.POST("/quizzes", c.quiz.CreateQuiz)
		teacher.GET("/quizzes/:id", c.quiz.GetQuiz)
		teacher.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		teacher.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		teacher.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		teacher.PUT("/questions/:id", c.quiz.UpdateQuestion)
		teacher.DELETE("/questions/:id", c.quiz.DeleteQuestion)

		// 成绩与批改
		teacher.GET("/quizzes/:id/results", c.quiz.GetResults)
		teacher.GET("/quizzes/:id/pending-essays", c.grade.ListPendingEssays)
		teacher.POST("/answers/:id/grade", c.grade.GradeEssay)
	}
}
