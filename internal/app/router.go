package app

import (
	"skilldev_backend/docs"
	"skilldev_backend/internal/config"
	"skilldev_backend/internal/middleware"
	"skilldev_backend/internal/model"
	"skilldev_backend/internal/util"
	"skilldev_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.NoRoute(util.NotFound)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(&cfg.JWT))
	{
		a.registerWorkerRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/overview", c.dashboard.GetOverview)

		public.GET("/skills", c.skill.ListSkills)
		public.GET("/skills/:id", c.skill.GetSkill)
		public.GET("/skill-categories", c.skill.ListCategories)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", middleware.OptionalAuthMiddleware(&cfg.JWT), c.course.GetCourse)

		public.GET("/workers", c.worker.ListWorkers)
		public.GET("/workers/departments", c.worker.ListDepartments)
		public.GET("/workers/:id", c.worker.GetWorker)
	}
}

func (a *App) registerWorkerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.Profile)
	rg.GET("/dashboard", c.dashboard.GetDashboard)

	rg.GET("/my-profile", c.worker.MyProfile)
	rg.PUT("/my-profile", c.worker.UpdateMyProfile)
	rg.PUT("/my-profile/skills/:skillId", c.worker.SetSkill)
	rg.DELETE("/my-profile/skills/:skillId", c.worker.RemoveSkill)

	rg.POST("/courses/:id/enroll", c.enrollment.Enroll)
	rg.GET("/my-courses", c.enrollment.MyCourses)

	enrollments := rg.Group("/enrollments/:id")
	{
		enrollments.POST("/drop", c.enrollment.Drop)
		enrollments.POST("/start", c.enrollment.Start)
		enrollments.PATCH("/progress", c.enrollment.UpdateProgress)
		enrollments.POST("/rating", c.enrollment.Rate)
		enrollments.GET("/modules", c.enrollment.ModuleProgress)
		enrollments.POST("/modules/:moduleId/complete", c.enrollment.CompleteModule)
	}
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.POST("/courses/:id/modules", c.course.AddModule)
		instructor.GET("/courses/:id/enrollments", c.enrollment.CourseEnrollments)
		instructor.POST("/modules/:moduleId/video", c.course.UploadModuleVideo)

		instructor.PATCH("/enrollments/:id/status", c.enrollment.UpdateStatus)
		instructor.POST("/enrollments/:id/certificate", c.enrollment.IssueCertificate)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/skill-categories", c.skill.CreateCategory)
		admin.POST("/skills", c.skill.CreateSkill)
		admin.POST("/skills/:id/prerequisites/:prereqId", c.skill.AddPrerequisite)
		admin.DELETE("/skills/:id/prerequisites/:prereqId", c.skill.RemovePrerequisite)
	}
}
