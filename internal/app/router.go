package app

import (
	"quizforge_backend/docs"
	"quizforge_backend/internal/config"
	"quizforge_backend/internal/middleware"
	"quizforge_backend/internal/model"
	"quizforge_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 图片内容公开，便于浏览器直接加载
		public.GET("/images/:imageId", c.image.GetImage)

		// 列表类：可选认证，允许游客访问，登录用户附带收藏标记
		public.GET("/quizzes", middleware.TryAuthMiddleware(a.Config), c.quiz.ListQuizzes)
		public.GET("/quizzes/:quizId", middleware.TryAuthMiddleware(a.Config), c.quiz.GetQuiz)
		public.GET("/quizzes/:quizId/stats", middleware.TryAuthMiddleware(a.Config), c.quiz.GetQuizStats)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)

	rg.POST("/quizzes", c.quiz.CreateQuiz)
	rg.GET("/quizzes/bookmarked", c.quiz.ListBookmarked)
	rg.POST("/quizzes/:quizId/bookmark", c.quiz.Bookmark)
	rg.DELETE("/quizzes/:quizId/bookmark", c.quiz.Unbookmark)

	rg.POST("/quizzes/grade", c.grade.SubmitAttempt)
	rg.GET("/attempts/history", c.grade.History)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.DELETE("/quizzes/:quizId", c.quiz.DeleteQuiz)
	}
}
